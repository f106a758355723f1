package handler

import (
	"net/http"

	"github.com/courseloop/assessment-backend/internal/middleware"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/response"
	"github.com/courseloop/assessment-backend/internal/service"
	"github.com/courseloop/assessment-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttemptHandler handles the student attempt lifecycle.
type AttemptHandler struct {
	attemptService *service.AttemptService
	answerService  *service.AnswerService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService, answerService *service.AnswerService) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		answerService:  answerService,
	}
}

// StartAttempt godoc
// POST /api/v1/student/exams/:exam_id/attempts/start
// Opens a new attempt or resumes the in-progress one.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.Start(c.Request.Context(), claims, examID)
	if err != nil {
		failDomain(c, err)
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	response.Success(c, status, gin.H{"attempt": result})
}

// ListMyAttempts godoc
// GET /api/v1/student/attempts
func (h *AttemptHandler) ListMyAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempts, err := h.attemptService.ListMine(c.Request.Context(), claims)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// GetAttemptReview godoc
// GET /api/v1/student/attempts/:attempt_id
// Returns the attempt with its questions and saved answers.
func (h *AttemptHandler) GetAttemptReview(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	review, err := h.attemptService.GetReview(c.Request.Context(), claims, attemptID)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": review})
}

// SaveAnswer godoc
// POST /api/v1/student/attempts/:attempt_id/answers
// Auto-save; objective answers grade on write.
func (h *AttemptHandler) SaveAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.answerService.Save(c.Request.Context(), claims, attemptID, &req)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answer": result})
}

// SubmitAttempt godoc
// POST /api/v1/student/attempts/:attempt_id/submit
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.Submit(c.Request.Context(), claims, attemptID)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}
