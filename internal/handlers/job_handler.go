package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmuchiri/nyumba-api/internal/jobs"
	"github.com/kmuchiri/nyumba-api/internal/services"
)

// JobHandler exposes background-job visibility and manual scan triggers for
// operators
type JobHandler struct {
	reminder *services.ReminderService
	worker   *jobs.Worker
}

func NewJobHandler(reminder *services.ReminderService, worker *jobs.Worker) *JobHandler {
	return &JobHandler{reminder: reminder, worker: worker}
}

// Stats returns worker pool statistics
func (h *JobHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"worker": h.worker.GetStats()})
}

// RunUpcomingReminders triggers the upcoming-rent scan immediately. The scan
// is idempotent within a day, so a manual run after the scheduled one sends
// nothing twice.
func (h *JobHandler) RunUpcomingReminders(c *gin.Context) {
	summary, err := h.reminder.RunUpcomingReminders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// RunLateReminders triggers the late-rent scan immediately
func (h *JobHandler) RunLateReminders(c *gin.Context) {
	summary, err := h.reminder.RunLateReminders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
