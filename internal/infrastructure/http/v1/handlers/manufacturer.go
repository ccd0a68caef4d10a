package handlers

import (
	"github.com/gin-gonic/gin"

	"ibeer/internal/domain/catalogs/manufacturer"
	"ibeer/internal/infrastructure/http/v1/dto"
)

// ManufacturerHandler handles HTTP requests for manufacturers.
type ManufacturerHandler struct {
	*BaseHandler
	service *manufacturer.Service
}

// NewManufacturerHandler creates a new manufacturer handler.
func NewManufacturerHandler(base *BaseHandler, service *manufacturer.Service) *ManufacturerHandler {
	return &ManufacturerHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /catalog/manufacturers
func (h *ManufacturerHandler) List(c *gin.Context) {
	var query dto.PaginationRequest
	if !h.BindQuery(c, &query) {
		return
	}

	page, err := h.service.GetAll(c.Request.Context(), query.ToPageRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPage(page))
}

// ListActive handles GET /catalog/manufacturers/active
func (h *ManufacturerHandler) ListActive(c *gin.Context) {
	var query dto.PaginationRequest
	if !h.BindQuery(c, &query) {
		return
	}

	page, err := h.service.GetAllActive(c.Request.Context(), query.ToPageRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPage(page))
}

// Get handles GET /catalog/manufacturers/:id
func (h *ManufacturerHandler) Get(c *gin.Context) {
	manufacturerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), manufacturerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, resp)
}

// Create handles POST /catalog/manufacturers
func (h *ManufacturerHandler) Create(c *gin.Context) {
	var req dto.CreateManufacturerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req.ToDTO())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, resp)
}

// Update handles PUT /catalog/manufacturers/:id
// The id in the path wins over anything in the body.
func (h *ManufacturerHandler) Update(c *gin.Context) {
	manufacturerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateManufacturerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), req.ToDTO(manufacturerID))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, resp)
}

// Delete handles DELETE /catalog/manufacturers/:id
func (h *ManufacturerHandler) Delete(c *gin.Context) {
	manufacturerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteByID(c.Request.Context(), manufacturerID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
