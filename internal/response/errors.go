package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Identity ──────────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrStaffAccessOnly   ErrCode = "STAFF_ACCESS_ONLY"
	ErrNotCourseOwner    ErrCode = "NOT_COURSE_OWNER"
	ErrNotEnrolled       ErrCode = "NOT_ENROLLED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Exam / attempt lifecycle ──────────────────────────────────────
	ErrExamNotPublished   ErrCode = "EXAM_NOT_PUBLISHED"
	ErrExamWindowClosed   ErrCode = "EXAM_WINDOW_CLOSED"
	ErrAttemptQuota       ErrCode = "ATTEMPT_QUOTA_EXHAUSTED"
	ErrAttemptNotActive   ErrCode = "ATTEMPT_NOT_IN_PROGRESS"
	ErrItemNotInAttempt   ErrCode = "ITEM_NOT_IN_ATTEMPT"
	ErrScoreExceedsMax    ErrCode = "SCORE_EXCEEDS_MAX"
	ErrAnswerNotGradable  ErrCode = "ANSWER_NOT_GRADABLE"
	ErrCorrectOptionUnset ErrCode = "CORRECT_OPTION_NOT_IN_OPTIONS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrStaffAccessOnly:
		return "This resource is restricted to course staff."
	case ErrNotCourseOwner:
		return "You do not own the course this resource belongs to."
	case ErrNotEnrolled:
		return "You are not enrolled in this course for the exam's academic period."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrDependencyExists:
		return "The resource cannot be deleted because it is still referenced."

	case ErrExamNotPublished:
		return "This exam is not published."
	case ErrExamWindowClosed:
		return "This exam is outside its availability window."
	case ErrAttemptQuota:
		return "You have used all attempts allowed for this exam."
	case ErrAttemptNotActive:
		return "This attempt is no longer in progress."
	case ErrItemNotInAttempt:
		return "The question does not belong to this attempt."
	case ErrScoreExceedsMax:
		return "The awarded score exceeds the question's maximum marks."
	case ErrAnswerNotGradable:
		return "This answer cannot be graded."
	case ErrCorrectOptionUnset:
		return "The correct option must be one of the question's options."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
