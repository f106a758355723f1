package handler

import (
	"errors"
	"net/http"

	"github.com/courseloop/assessment-backend/internal/response"
	"github.com/courseloop/assessment-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// failDomain translates service-layer errors into the API error
// taxonomy. Unknown errors report as opaque internal failures.
func failDomain(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotCourseOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotCourseOwner)
	case errors.Is(err, service.ErrNotEnrolled):
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
	case errors.Is(err, service.ErrNotAttemptOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrExamNotPublished):
		response.Fail(c, http.StatusConflict, response.ErrExamNotPublished)
	case errors.Is(err, service.ErrExamWindowClosed):
		response.Fail(c, http.StatusConflict, response.ErrExamWindowClosed)
	case errors.Is(err, service.ErrAttemptQuotaExceeded):
		response.Fail(c, http.StatusConflict, response.ErrAttemptQuota)
	case errors.Is(err, service.ErrAttemptNotActive):
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
	case errors.Is(err, service.ErrItemNotInAttempt),
		errors.Is(err, service.ErrAnswerNotInAttempt):
		response.Fail(c, http.StatusBadRequest, response.ErrItemNotInAttempt)
	case errors.Is(err, service.ErrUnknownOption):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.Is(err, service.ErrScoreAboveMax):
		response.Fail(c, http.StatusBadRequest, response.ErrScoreExceedsMax)
	case errors.Is(err, service.ErrAttemptNotGradable):
		response.Fail(c, http.StatusConflict, response.ErrAnswerNotGradable)
	case errors.Is(err, service.ErrCorrectOptionUnset):
		response.Fail(c, http.StatusBadRequest, response.ErrCorrectOptionUnset)
	case errors.Is(err, service.ErrPayloadKindMismatch),
		errors.Is(err, service.ErrManualNeedsQuestions),
		errors.Is(err, service.ErrTemplateKindMismatch),
		errors.Is(err, service.ErrQuestionWrongCourse):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.Is(err, service.ErrItemReferenced):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
