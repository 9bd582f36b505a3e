package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmuchiri/nyumba-api/internal/services"
)

type AccountHandler struct {
	reconciliation *services.ReconciliationService
}

func NewAccountHandler(reconciliation *services.ReconciliationService) *AccountHandler {
	return &AccountHandler{reconciliation: reconciliation}
}

// Show returns the tenant's current account snapshot, recomputed from the
// full ledger on every call
func (h *AccountHandler) Show(c *gin.Context) {
	tenantID, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)

	snapshot, err := h.reconciliation.Reconcile(c.Request.Context(), uint(tenantID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tenant has no leases"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": snapshot})
}

// Reconcile forces a reconciliation pass and returns the fresh snapshot.
// Functionally the same as Show; exists so operators have an explicit verb
// to reach for after correcting ledger data.
func (h *AccountHandler) Reconcile(c *gin.Context) {
	h.Show(c)
}
