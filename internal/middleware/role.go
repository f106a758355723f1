package middleware

import (
	"net/http"

	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// RequireRole checks that the caller's JWT carries one of the allowed
// roles. Must run after RequireJWT or RequireWSAuth.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		code := response.ErrForbidden
		if len(roles) == 1 {
			switch roles[0] {
			case model.RoleStudent:
				code = response.ErrStudentAccessOnly
			case model.RoleStaff:
				code = response.ErrStaffAccessOnly
			}
		}
		response.AbortFail(c, http.StatusForbidden, code)
	}
}
