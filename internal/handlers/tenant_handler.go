package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/kmuchiri/nyumba-api/internal/repository"
)

type TenantHandler struct {
	tenantRepo repository.TenantRepository
}

func NewTenantHandler(tenantRepo repository.TenantRepository) *TenantHandler {
	return &TenantHandler{tenantRepo: tenantRepo}
}

// Index returns a paginated list of tenants
func (h *TenantHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["active"] = c.Query("active")
	if search := c.Query("search"); search != "" {
		query.Filters["search_term"] = search
	}

	tenants, total, err := h.tenantRepo.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, t := range tenants {
		responses = append(responses, t.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"tenants": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// Show returns a single tenant by ID
func (h *TenantHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	tenant, err := h.tenantRepo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenant": tenant.ToResponse()})
}

// CreateTenantRequest is the payload for registering a tenant
type CreateTenantRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email"`
	SMSOptIn   *bool  `json:"sms_opt_in"`
	EmailOptIn *bool  `json:"email_opt_in"`
}

// Create registers a new tenant. Opt-in flags default to true; tenants who
// don't want notifications opt out explicitly.
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := BindNestedOrFlat(c, "tenant", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	if req.FullName == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name and phone are required"})
		return
	}

	tenant := &models.Tenant{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Email:      req.Email,
		SMSOptIn:   true,
		EmailOptIn: true,
		Active:     true,
	}
	if req.SMSOptIn != nil {
		tenant.SMSOptIn = *req.SMSOptIn
	}
	if req.EmailOptIn != nil {
		tenant.EmailOptIn = *req.EmailOptIn
	}

	if err := h.tenantRepo.Create(c.Request.Context(), tenant); err != nil {
		if repository.IsDuplicate(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "phone number already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tenant": tenant.ToResponse()})
}

// UpdateTenantRequest is the payload for updating a tenant
type UpdateTenantRequest struct {
	FullName   *string `json:"full_name"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	SMSOptIn   *bool   `json:"sms_opt_in"`
	EmailOptIn *bool   `json:"email_opt_in"`
	Active     *bool   `json:"active"`
}

// Update modifies tenant contact details and opt-in flags
func (h *TenantHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	tenant, err := h.tenantRepo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	var req UpdateTenantRequest
	if err := BindNestedOrFlat(c, "tenant", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	if req.FullName != nil {
		tenant.FullName = *req.FullName
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.Email != nil {
		tenant.Email = *req.Email
	}
	if req.SMSOptIn != nil {
		tenant.SMSOptIn = *req.SMSOptIn
	}
	if req.EmailOptIn != nil {
		tenant.EmailOptIn = *req.EmailOptIn
	}
	if req.Active != nil {
		tenant.Active = *req.Active
	}

	if err := h.tenantRepo.Update(c.Request.Context(), tenant); err != nil {
		if repository.IsDuplicate(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "phone number already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenant.ToResponse()})
}
