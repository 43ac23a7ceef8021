package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pressing-api/internal/application/service"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/response"
)

// TenantHandler handles the business settings and agencies of the caller's tenant
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// GetCurrent returns the caller's tenant with its effective settings
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenant, err := h.tenantService.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant retrieved successfully", tenant)
}

// UpdateSettings replaces the tenant settings
func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.UpdateSettings(c.Request.Context(), req.ToSettings())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", tenant)
}

// ListAgencies lists the branches of the tenant
func (h *TenantHandler) ListAgencies(c *gin.Context) {
	agencies, err := h.tenantService.ListAgencies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Agencies retrieved successfully", agencies)
}

// CreateAgency adds a branch
func (h *TenantHandler) CreateAgency(c *gin.Context) {
	var req request.CreateAgencyRequest
	if !bindJSON(c, &req) {
		return
	}

	agency, err := h.tenantService.CreateAgency(c.Request.Context(), &service.CreateAgencyInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Agency created successfully", agency)
}
