package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmuchiri/nyumba-api/internal/services"
)

// WebhookHandler receives payment callbacks from the mobile-money gateway
type WebhookHandler struct {
	ingestion *services.IngestionService
	secret    string
}

func NewWebhookHandler(ingestion *services.IngestionService, secret string) *WebhookHandler {
	return &WebhookHandler{ingestion: ingestion, secret: secret}
}

// Mpesa handles POST /webhooks/mpesa. The gateway authenticates with a
// shared secret header rather than a JWT. Duplicate deliveries get 200 so
// the gateway stops retrying; resolution failures get 422 so they land in
// its dead-letter queue for manual review.
func (h *WebhookHandler) Mpesa(c *gin.Context) {
	if h.secret != "" {
		provided := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}
	}

	var event services.PaymentEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	result, err := h.ingestion.IngestPayment(c.Request.Context(), &event)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMalformedEvent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrTenantNotFound), errors.Is(err, services.ErrNoActiveLease):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process payment event"})
		}
		return
	}

	if result.Duplicate {
		c.JSON(http.StatusOK, gin.H{
			"payment_id": result.PaymentID,
			"duplicate":  true,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment_id": result.PaymentID,
		"duplicate":  false,
	})
}
