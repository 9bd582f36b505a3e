package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/internal/services"
)

type LeaseHandler struct {
	leaseService *services.LeaseService
	leaseRepo    repository.LeaseRepository
}

func NewLeaseHandler(leaseService *services.LeaseService, leaseRepo repository.LeaseRepository) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService, leaseRepo: leaseRepo}
}

// Index returns a paginated list of leases
func (h *LeaseHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	if search := c.Query("search"); search != "" {
		query.Filters["search_term"] = search
	}

	leases, total, err := h.leaseRepo.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, l := range leases {
		responses = append(responses, l.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"leases": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// Show returns a single lease by ID
func (h *LeaseHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)
	lease, err := h.leaseRepo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lease not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}

// Create opens a new lease in pending state
func (h *LeaseHandler) Create(c *gin.Context) {
	var input services.CreateLeaseInput
	if err := BindNestedOrFlat(c, "lease", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	lease, err := h.leaseService.Create(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, services.ErrMalformedEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lease": lease.ToResponse()})
}

// Activate transitions a pending lease to active
func (h *LeaseHandler) Activate(c *gin.Context) {
	h.transition(c, h.leaseService.Activate)
}

// MarkOverdue flags an active lease whose account is in arrears
func (h *LeaseHandler) MarkOverdue(c *gin.Context) {
	h.transition(c, h.leaseService.MarkOverdue)
}

// CatchUp returns an overdue lease to active
func (h *LeaseHandler) CatchUp(c *gin.Context) {
	h.transition(c, h.leaseService.CatchUp)
}

// Terminate closes out a lease
func (h *LeaseHandler) Terminate(c *gin.Context) {
	h.transition(c, h.leaseService.Terminate)
}

func (h *LeaseHandler) transition(c *gin.Context, apply func(ctx context.Context, leaseID uint) (*models.Lease, error)) {
	id, _ := strconv.ParseUint(c.Param("lease_id"), 10, 32)

	lease, err := apply(c.Request.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Lease not found"})
		case errors.Is(err, services.ErrInvalidState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}
