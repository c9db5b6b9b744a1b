package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mintygd/demonlist/internal/dto"
	"github.com/mintygd/demonlist/internal/service"
	"github.com/mintygd/demonlist/pkg/response"
	"github.com/mintygd/demonlist/pkg/validator"
)

type RecordHandler struct {
	service service.RecordService
}

func NewRecordHandler(service service.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

func (h *RecordHandler) SubmitRecord(c *gin.Context) {
	var req dto.SubmitRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.service.Submit(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *RecordHandler) GetMyRecords(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.service.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *RecordHandler) GetReviewQueue(c *gin.Context) {
	records, err := h.service.GetReviewQueue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *RecordHandler) ApproveRecord(c *gin.Context) {
	h.review(c, h.service.Approve, "record approved")
}

func (h *RecordHandler) RejectRecord(c *gin.Context) {
	h.review(c, h.service.Reject, "record rejected")
}

func (h *RecordHandler) review(c *gin.Context, reviewFn func(ctx context.Context, reviewerID, recordID uuid.UUID) error, message string) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	reviewerID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := reviewFn(c.Request.Context(), reviewerID, recordID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
