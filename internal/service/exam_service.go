package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/courseloop/assessment-backend/internal/directory"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/repository"
	"github.com/courseloop/assessment-backend/internal/response"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Exam-side domain errors.
var (
	ErrManualNeedsQuestions = errors.New("manual selection requires at least one question")
	ErrTemplateKindMismatch = errors.New("template question kind conflicts with exam type")
	ErrQuestionWrongCourse  = errors.New("template question belongs to another course")
)

// ExamDetail is an exam plus its manual template, when one exists.
type ExamDetail struct {
	Exam     *model.Exam      `json:"exam"`
	Template []model.ExamItem `json:"template,omitempty"`
}

// ExamService handles exam definition business logic.
type ExamService struct {
	pool         *pgxpool.Pool
	examRepo     *repository.ExamRepository
	examItemRepo *repository.ExamItemRepository
	bankRepo     *repository.BankItemRepository
	dir          directory.Directory
	events       *EventPublisher
	log          zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	pool *pgxpool.Pool,
	examRepo *repository.ExamRepository,
	examItemRepo *repository.ExamItemRepository,
	bankRepo *repository.BankItemRepository,
	dir directory.Directory,
	events *EventPublisher,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		pool:         pool,
		examRepo:     examRepo,
		examItemRepo: examItemRepo,
		bankRepo:     bankRepo,
		dir:          dir,
		events:       events,
		log:          log.With().Str("component", "exam_service").Logger(),
	}
}

func (s *ExamService) requireCourseAccess(ctx context.Context, courseID uuid.UUID, claims *Claims) error {
	if claims.Role == model.RoleAdmin {
		return nil
	}
	owned, err := s.dir.IsCourseOwnedBy(ctx, courseID, claims.PrincipalID)
	if err != nil {
		return fmt.Errorf("check course ownership: %w", err)
	}
	if !owned {
		return ErrNotCourseOwner
	}
	return nil
}

// Create inserts an exam and, for manual selection, its template items
// in one transaction. Template questions must belong to the exam's
// course and respect the exam type.
func (s *ExamService) Create(ctx context.Context, claims *Claims, req *model.CreateExamRequest) (*model.Exam, error) {
	if err := s.requireCourseAccess(ctx, req.CourseID, claims); err != nil {
		return nil, err
	}

	exam := &model.Exam{
		CourseID:        req.CourseID,
		AcademicYear:    req.AcademicYear,
		Semester:        req.Semester,
		Title:           req.Title,
		Instructions:    req.Instructions,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		DurationMinutes: req.DurationMinutes,
		Visibility:      model.ExamDraft,
		Randomize:       req.Randomize,
		ExamType:        model.ExamTypeMixed,
		SelectionMode:   model.SelectionMode(req.SelectionMode),
		ObjectiveCount:  req.ObjectiveCount,
		TheoryCount:     req.TheoryCount,
		MaxAttempts:     req.MaxAttempts,
		CreatedBy:       claims.PrincipalID,
	}
	if req.Visibility != "" {
		exam.Visibility = model.ExamVisibility(req.Visibility)
	}
	if req.ExamType != "" {
		exam.ExamType = model.ExamType(req.ExamType)
	}
	if exam.MaxAttempts == 0 {
		exam.MaxAttempts = model.DefaultMaxAttempts
	}

	if exam.SelectionMode == model.SelectionManual {
		if len(req.ManualQuestionIDs) == 0 {
			return nil, ErrManualNeedsQuestions
		}
		if err := s.checkTemplateQuestions(ctx, exam, req.ManualQuestionIDs); err != nil {
			return nil, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.examRepo.Create(ctx, tx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	if exam.SelectionMode == model.SelectionManual {
		if err := s.examItemRepo.CreateTemplateItems(ctx, tx, exam.ID, req.ManualQuestionIDs); err != nil {
			return nil, fmt.Errorf("seed exam template: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return exam, nil
}

// checkTemplateQuestions verifies every manual question exists, belongs
// to the exam's course, and fits the exam type.
func (s *ExamService) checkTemplateQuestions(ctx context.Context, exam *model.Exam, ids []uuid.UUID) error {
	items, err := s.bankRepo.GetManyByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load template questions: %w", err)
	}
	found := make(map[uuid.UUID]*model.BankItem, len(items))
	for i := range items {
		found[items[i].ID] = &items[i]
	}
	for _, id := range ids {
		item, ok := found[id]
		if !ok {
			return fmt.Errorf("question %s: %w", id, ErrQuestionWrongCourse)
		}
		if item.CourseID != exam.CourseID {
			return fmt.Errorf("question %s: %w", id, ErrQuestionWrongCourse)
		}
		switch exam.ExamType {
		case model.ExamTypeObjectiveOnly:
			if item.Kind != model.BankItemObjective {
				return fmt.Errorf("question %s: %w", id, ErrTemplateKindMismatch)
			}
		case model.ExamTypeTheoryOnly:
			if item.Kind != model.BankItemTheory {
				return fmt.Errorf("question %s: %w", id, ErrTemplateKindMismatch)
			}
		}
	}
	return nil
}

// Get retrieves one exam with its manual template, when present.
func (s *ExamService) Get(ctx context.Context, claims *Claims, id uuid.UUID) (*ExamDetail, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireCourseAccess(ctx, exam.CourseID, claims); err != nil {
		return nil, err
	}

	detail := &ExamDetail{Exam: exam}
	if exam.SelectionMode == model.SelectionManual {
		detail.Template, err = s.examItemRepo.ListTemplates(ctx, s.pool, exam.ID)
		if err != nil {
			return nil, fmt.Errorf("load exam template: %w", err)
		}
	}
	return detail, nil
}

// List retrieves exams for a course with filters and pagination.
func (s *ExamService) List(ctx context.Context, claims *Claims, f model.ExamFilter, page, perPage int) ([]model.Exam, *response.Pagination, error) {
	if err := s.requireCourseAccess(ctx, f.CourseID, claims); err != nil {
		return nil, nil, err
	}

	page, perPage = normalizePage(page, perPage)
	exams, total, err := s.examRepo.List(ctx, f, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if exams == nil {
		exams = []model.Exam{}
	}
	return exams, buildPagination(page, perPage, total), nil
}

// Update applies a partial patch to an exam. Attempts already started
// keep their original question sets and scores. Edits by someone other
// than the exam's author are audited.
func (s *ExamService) Update(ctx context.Context, claims *Claims, id uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireCourseAccess(ctx, exam.CourseID, claims); err != nil {
		return nil, err
	}

	applyExamPatch(exam, req)
	if err := s.examRepo.Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("update exam: %w", err)
	}

	if claims.PrincipalID != exam.CreatedBy {
		detail, _ := json.Marshal(req)
		s.events.EnqueueAudit(ctx, model.AuditEvent{
			ActorID:    claims.PrincipalID,
			ActorRole:  claims.Role,
			Action:     model.AuditExamUpdated,
			EntityType: "exam",
			EntityID:   exam.ID.String(),
			Detail:     detail,
		})
	}
	return exam, nil
}

// applyExamPatch copies only the fields present in the request.
func applyExamPatch(exam *model.Exam, req *model.UpdateExamRequest) {
	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Instructions != nil {
		exam.Instructions = *req.Instructions
	}
	if req.StartAt != nil {
		exam.StartAt = req.StartAt
	}
	if req.EndAt != nil {
		exam.EndAt = req.EndAt
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}
	if req.Visibility != nil {
		exam.Visibility = model.ExamVisibility(*req.Visibility)
	}
	if req.Randomize != nil {
		exam.Randomize = *req.Randomize
	}
	if req.ObjectiveCount != nil {
		exam.ObjectiveCount = *req.ObjectiveCount
	}
	if req.TheoryCount != nil {
		exam.TheoryCount = *req.TheoryCount
	}
	if req.MaxAttempts != nil {
		exam.MaxAttempts = *req.MaxAttempts
	}
}

// Delete removes an exam and all dependent rows in one transaction.
func (s *ExamService) Delete(ctx context.Context, claims *Claims, id uuid.UUID) error {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireCourseAccess(ctx, exam.CourseID, claims); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.examRepo.DeleteCascade(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	s.events.EnqueueAudit(ctx, model.AuditEvent{
		ActorID:    claims.PrincipalID,
		ActorRole:  claims.Role,
		Action:     model.AuditExamDeleted,
		EntityType: "exam",
		EntityID:   id.String(),
		Detail:     json.RawMessage(strconv.Quote(exam.Title)),
	})
	return nil
}

// Statistics aggregates an exam's graded attempts. The mean is rounded
// to two decimals; extrema are reported as stored.
func (s *ExamService) Statistics(ctx context.Context, claims *Claims, id uuid.UUID) (*model.ExamStatistics, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireCourseAccess(ctx, exam.CourseID, claims); err != nil {
		return nil, err
	}

	stats, err := s.examRepo.Statistics(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("exam statistics: %w", err)
	}
	stats.AverageScore = roundScore(stats.AverageScore)
	return stats, nil
}

// roundScore rounds half away from zero to two decimal places.
func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
