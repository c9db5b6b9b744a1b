package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/dto"
	"github.com/mintygd/demonlist/internal/service"
	"github.com/mintygd/demonlist/pkg/apperror"
	"github.com/mintygd/demonlist/pkg/response"
	"github.com/mintygd/demonlist/pkg/validator"
)

type DemonHandler struct {
	service service.ListService
	search  service.SearchService
}

func NewDemonHandler(service service.ListService, search service.SearchService) *DemonHandler {
	return &DemonHandler{service: service, search: search}
}

func (h *DemonHandler) GetDemons(c *gin.Context) {
	var filter dto.DemonFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	demons, err := h.service.GetDemons(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, demons)
}

func (h *DemonHandler) GetDemon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid demon id"})
		return
	}

	demon, err := h.service.GetDemon(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, demon)
}

func (h *DemonHandler) SearchDemons(c *gin.Context) {
	if h.search == nil {
		response.Error(c, apperror.ErrUnavailable)
		return
	}

	query := c.Query("q")
	listType := c.Query("list_type")

	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	docs, err := h.search.Search(query, listType, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *DemonHandler) CreateDemon(c *gin.Context) {
	var req dto.CreateDemonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	demon, err := h.service.CreateDemon(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, demon)
}

func (h *DemonHandler) UpdateDemon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid demon id"})
		return
	}

	var req dto.UpdateDemonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	demon, err := h.service.UpdateDemon(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, demon)
}

func (h *DemonHandler) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.Reorder(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "list reordered"})
}

func (h *DemonHandler) DeleteDemon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid demon id"})
		return
	}

	if err := h.service.DeleteDemon(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "demon deleted"})
}
