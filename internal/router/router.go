package router

import (
	"net/http"
	"time"

	"github.com/courseloop/assessment-backend/internal/config"
	"github.com/courseloop/assessment-backend/internal/handler"
	"github.com/courseloop/assessment-backend/internal/middleware"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/response"
	"github.com/courseloop/assessment-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Bank    *handler.BankHandler
	Exam    *handler.ExamHandler
	Attempt *handler.AttemptHandler
	Grading *handler.GradingHandler
	Monitor *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	tokenService *service.TokenService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the answer auto-save route (120 per minute per
	// principal); clients typically save on every keystroke pause.
	saveLimiter := middleware.NewRateLimiter(120, time.Minute)

	// ─── 1. Staff Group (JWT + Role) ───────────────────────────────────
	staffAPI := router.Group("/api/v1/staff")
	staffAPI.Use(
		middleware.RequireJWT(tokenService),
		middleware.RequireRole(model.RoleStaff, model.RoleAdmin),
	)
	{
		// Question bank
		staffAPI.POST("/bank-items", handlers.Bank.CreateBankItem)
		staffAPI.GET("/bank-items", handlers.Bank.ListBankItems)
		staffAPI.GET("/bank-items/:item_id", handlers.Bank.GetBankItem)
		staffAPI.PATCH("/bank-items/:item_id", handlers.Bank.UpdateBankItem)
		staffAPI.DELETE("/bank-items/:item_id", handlers.Bank.DeleteBankItem)

		// Exam definitions
		staffAPI.POST("/exams", handlers.Exam.CreateExam)
		staffAPI.GET("/exams", handlers.Exam.ListExams)
		staffAPI.GET("/exams/:exam_id", handlers.Exam.GetExam)
		staffAPI.PATCH("/exams/:exam_id", handlers.Exam.UpdateExam)
		staffAPI.DELETE("/exams/:exam_id", handlers.Exam.DeleteExam)
		staffAPI.GET("/exams/:exam_id/statistics", handlers.Exam.GetExamStatistics)

		// Grading
		staffAPI.GET("/attempts/:attempt_id", handlers.Grading.GetAttemptForGrading)
		staffAPI.GET("/attempts/:attempt_id/theory-answers", handlers.Grading.ListAttemptTheoryAnswers)
		staffAPI.POST("/attempts/:attempt_id/bulk-grade", handlers.Grading.BulkGradeAttempt)
		staffAPI.POST("/theory-answers/:answer_id/grade", handlers.Grading.GradeTheoryAnswer)
	}

	// ─── 2. Student Group (JWT + Role) ─────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireJWT(tokenService),
		middleware.RequireRole(model.RoleStudent),
	)
	{
		studentAPI.POST("/exams/:exam_id/attempts/start", handlers.Attempt.StartAttempt)
		studentAPI.GET("/attempts", handlers.Attempt.ListMyAttempts)
		studentAPI.GET("/attempts/:attempt_id", handlers.Attempt.GetAttemptReview)
		studentAPI.POST("/attempts/:attempt_id/answers", saveLimiter.Middleware(), handlers.Attempt.SaveAnswer)
		studentAPI.POST("/attempts/:attempt_id/submit", handlers.Attempt.SubmitAttempt)
	}

	// ─── 3. WebSocket Group (Query-Token Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireWSAuth(tokenService),
		middleware.RequireRole(model.RoleStaff, model.RoleAdmin),
	)
	{
		ws.GET("/staff/exams/:exam_id/monitor", handlers.Monitor.ExamMonitorStream)
	}

	return router
}
