package handler

import (
	"net/http"
	"strconv"

	"github.com/courseloop/assessment-backend/internal/middleware"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/response"
	"github.com/courseloop/assessment-backend/internal/service"
	"github.com/courseloop/assessment-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BankHandler handles question-bank management endpoints.
type BankHandler struct {
	bankService *service.BankService
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(bankService *service.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

// CreateBankItem godoc
// POST /api/v1/staff/bank-items
func (h *BankHandler) CreateBankItem(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateBankItemRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.bankService.Create(c.Request.Context(), claims, &req)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"bank_item": item})
}

// GetBankItem godoc
// GET /api/v1/staff/bank-items/:item_id
func (h *BankHandler) GetBankItem(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	item, err := h.bankService.GetByID(c.Request.Context(), claims, itemID)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bank_item": item})
}

// ListBankItems godoc
// GET /api/v1/staff/bank-items?course_id=...&kind=...&status=...&difficulty=...&topic=...
func (h *BankHandler) ListBankItems(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Query("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	filter := model.BankItemFilter{CourseID: courseID}
	if v := c.Query("kind"); v != "" {
		kind := model.BankItemKind(v)
		filter.Kind = &kind
	}
	if v := c.Query("status"); v != "" {
		status := model.BankItemStatus(v)
		filter.Status = &status
	}
	if v := c.Query("difficulty"); v != "" {
		filter.Difficulty = &v
	}
	if v := c.Query("topic"); v != "" {
		filter.Topic = &v
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	items, pagination, err := h.bankService.List(c.Request.Context(), claims, filter, page, perPage)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"bank_items": items}, pagination)
}

// UpdateBankItem godoc
// PATCH /api/v1/staff/bank-items/:item_id
func (h *BankHandler) UpdateBankItem(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateBankItemRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.bankService.Update(c.Request.Context(), claims, itemID, &req)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bank_item": item})
}

// DeleteBankItem godoc
// DELETE /api/v1/staff/bank-items/:item_id
// Rejected while exam items still reference the question.
func (h *BankHandler) DeleteBankItem(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.bankService.Delete(c.Request.Context(), claims, itemID); err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
