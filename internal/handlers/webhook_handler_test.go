package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kmuchiri/nyumba-api/internal/services"
	"github.com/stretchr/testify/assert"
)

func webhookRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	// The malformed-payload paths reject before any repository access, so a
	// zero-dependency ingestion service is enough here. The full ingestion
	// pipeline is covered in the services package.
	ingestion := services.NewIngestionService(nil, nil, nil, nil, nil, nil, nil, nil)
	h := NewWebhookHandler(ingestion, secret)

	router := gin.New()
	router.POST("/webhooks/mpesa", h.Mpesa)
	return router
}

func postWebhook(router *gin.Engine, secret, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhooks/mpesa", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestWebhook_RejectsMissingSecret(t *testing.T) {
	router := webhookRouter("topsecret")

	w := postWebhook(router, "", `{"transaction_id":"MPE1","payer_phone":"+254700111222","amount":"100"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhook_RejectsWrongSecret(t *testing.T) {
	router := webhookRouter("topsecret")

	w := postWebhook(router, "wrong", `{"transaction_id":"MPE1","payer_phone":"+254700111222","amount":"100"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhook_RejectsInvalidJSON(t *testing.T) {
	router := webhookRouter("topsecret")

	w := postWebhook(router, "topsecret", `{"transaction_id": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_RejectsMissingFields(t *testing.T) {
	router := webhookRouter("topsecret")

	cases := []string{
		`{"payer_phone":"+254700111222","amount":"100"}`,
		`{"transaction_id":"MPE1","amount":"100"}`,
		`{"transaction_id":"MPE1","payer_phone":"+254700111222","amount":"0"}`,
	}
	for _, body := range cases {
		w := postWebhook(router, "topsecret", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}
