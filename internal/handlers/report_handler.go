package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmuchiri/nyumba-api/internal/services"
)

type ReportHandler struct {
	exportService *services.ExportService
}

func NewReportHandler(exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{exportService: exportService}
}

// ArrearsCSV streams the arrears report as a CSV download
func (h *ReportHandler) ArrearsCSV(c *gin.Context) {
	data, filename, err := h.exportService.ArrearsCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// ArrearsXLSX streams the arrears report as a spreadsheet download
func (h *ReportHandler) ArrearsXLSX(c *gin.Context) {
	data, filename, err := h.exportService.ArrearsXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ReceiptPDF streams a payment receipt as a PDF download
func (h *ReportHandler) ReceiptPDF(c *gin.Context) {
	paymentID, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)

	data, filename, err := h.exportService.ReceiptPDF(c.Request.Context(), uint(paymentID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
