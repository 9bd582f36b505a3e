package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/internal/services"
)

type PaymentHandler struct {
	ingestion   *services.IngestionService
	paymentRepo repository.PaymentRepository
}

func NewPaymentHandler(ingestion *services.IngestionService, paymentRepo repository.PaymentRepository) *PaymentHandler {
	return &PaymentHandler{ingestion: ingestion, paymentRepo: paymentRepo}
}

// Index returns a paginated list of payments
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["method"] = c.Query("method")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	if search := c.Query("search"); search != "" {
		query.Filters["search_term"] = search
	}
	if search := c.Query("search_term"); search != "" {
		query.Filters["search_term"] = search
	}

	payments, total, err := h.paymentRepo.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, p := range payments {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// Show returns a single payment by ID
func (h *PaymentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	payment, err := h.paymentRepo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// Create records a manual payment entered by staff
func (h *PaymentHandler) Create(c *gin.Context) {
	var input services.ManualPaymentInput
	if err := BindNestedOrFlat(c, "payment", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	result, err := h.ingestion.IngestManual(c.Request.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMalformedEvent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Lease not found"})
		case errors.Is(err, services.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "transaction reference already recorded"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment_id": result.PaymentID,
		"snapshot":   result.Snapshot,
	})
}
