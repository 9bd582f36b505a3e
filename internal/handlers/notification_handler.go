package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmuchiri/nyumba-api/internal/repository"
)

type NotificationHandler struct {
	notificationLog repository.NotificationLogRepository
}

func NewNotificationHandler(notificationLog repository.NotificationLogRepository) *NotificationHandler {
	return &NotificationHandler{notificationLog: notificationLog}
}

// Index returns the tenant's notification history, newest first
func (h *NotificationHandler) Index(c *gin.Context) {
	tenantID, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)

	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["channel"] = c.Query("channel")
	query.Filters["status"] = c.Query("status")

	logs, total, err := h.notificationLog.FindByTenant(c.Request.Context(), uint(tenantID), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": logs,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}
