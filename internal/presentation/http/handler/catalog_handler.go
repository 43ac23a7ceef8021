package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pressing-api/internal/application/service"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/response"
)

// CatalogHandler handles the priced service catalog
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func catalogInput(r *request.CatalogEntryRequest) *service.CatalogEntryInput {
	return &service.CatalogEntryInput{
		Name:        r.Name,
		Category:    r.Category,
		UnitPrice:   r.UnitPrice,
		Description: r.Description,
		Active:      r.Active,
	}
}

// List handles listing catalog entries. active=true hides disabled entries.
func (h *CatalogHandler) List(c *gin.Context) {
	result, err := h.catalogService.ListEntries(c.Request.Context(), pageParams(c), c.Query("search"), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Services retrieved successfully", result)
}

// Get returns one catalog entry
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.catalogService.GetEntry(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service retrieved successfully", entry)
}

// Create adds a catalog entry
func (h *CatalogHandler) Create(c *gin.Context) {
	var req request.CatalogEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.catalogService.CreateEntry(c.Request.Context(), catalogInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Service created successfully", entry)
}

// Update replaces a catalog entry
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.CatalogEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.catalogService.UpdateEntry(c.Request.Context(), id, catalogInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service updated successfully", entry)
}

// Delete removes a catalog entry. Deposits keep their copied lines.
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteEntry(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service deleted successfully", nil)
}
