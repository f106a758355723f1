package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Answer-side domain errors.
var (
	ErrItemNotInAttempt = errors.New("exam item does not belong to this attempt")
	ErrUnknownOption    = errors.New("selected option is not part of the question")
)

// AnswerService handles answer auto-save during an attempt. Objective
// answers grade on write; theory answers store ungraded.
type AnswerService struct {
	attemptRepo  *repository.AttemptRepository
	examItemRepo *repository.ExamItemRepository
	answerRepo   *repository.AnswerRepository
	bankRepo     *repository.BankItemRepository
	log          zerolog.Logger
}

// NewAnswerService creates a new AnswerService.
func NewAnswerService(
	attemptRepo *repository.AttemptRepository,
	examItemRepo *repository.ExamItemRepository,
	answerRepo *repository.AnswerRepository,
	bankRepo *repository.BankItemRepository,
	log zerolog.Logger,
) *AnswerService {
	return &AnswerService{
		attemptRepo:  attemptRepo,
		examItemRepo: examItemRepo,
		answerRepo:   answerRepo,
		bankRepo:     bankRepo,
		log:          log.With().Str("component", "answer_service").Logger(),
	}
}

// Save upserts one answer keyed by (attempt, item). Repeated calls for
// the same item overwrite the previous save, so clients can auto-save
// freely while the attempt is in progress.
func (s *AnswerService) Save(ctx context.Context, claims *Claims, attemptID uuid.UUID, req *model.SubmitAnswerRequest) (*model.SubmitAnswerResult, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != claims.PrincipalID {
		return nil, ErrNotAttemptOwner
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, ErrAttemptNotActive
	}

	item, err := s.examItemRepo.GetAttemptItem(ctx, req.ExamItemID)
	if err != nil {
		return nil, err
	}
	if item.AttemptID == nil || *item.AttemptID != attemptID {
		return nil, ErrItemNotInAttempt
	}

	question, err := s.bankRepo.GetByID(ctx, item.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}

	switch question.Kind {
	case model.BankItemObjective:
		return s.saveObjective(ctx, attemptID, item, question, req)
	default:
		return s.saveTheory(ctx, attemptID, item, req)
	}
}

// saveObjective grades on write: full points when the selected option
// matches the correct one, zero otherwise. A nil selection clears the
// answer and scores zero.
func (s *AnswerService) saveObjective(ctx context.Context, attemptID uuid.UUID, item *model.ExamItem, question *model.BankItem, req *model.SubmitAnswerRequest) (*model.SubmitAnswerResult, error) {
	if req.SelectedOption != nil && !question.HasOption(*req.SelectedOption) {
		return nil, ErrUnknownOption
	}

	correct, score := gradeObjective(req.SelectedOption, question)

	answer := &model.AnswerObjective{
		AttemptID:      attemptID,
		ExamItemID:     item.ID,
		SelectedOption: req.SelectedOption,
		IsCorrect:      correct,
		Score:          score,
		AnsweredAt:     time.Now(),
	}
	if err := s.answerRepo.UpsertObjective(ctx, answer); err != nil {
		return nil, fmt.Errorf("save objective answer: %w", err)
	}
	return &model.SubmitAnswerResult{
		QuestionType: model.BankItemObjective,
		IsCorrect:    &correct,
		Score:        &score,
	}, nil
}

// gradeObjective awards the item's full point value on an exact match
// with the correct option, zero otherwise. A nil selection never scores.
func gradeObjective(selected *string, question *model.BankItem) (bool, float64) {
	if selected == nil || question.CorrectOpt == nil {
		return false, 0
	}
	if *selected != *question.CorrectOpt {
		return false, 0
	}
	return true, question.Points
}

func (s *AnswerService) saveTheory(ctx context.Context, attemptID uuid.UUID, item *model.ExamItem, req *model.SubmitAnswerRequest) (*model.SubmitAnswerResult, error) {
	answer := &model.AnswerTheory{
		AttemptID:  attemptID,
		ExamItemID: item.ID,
		AnswerText: req.AnswerText,
		FileURL:    req.FileURL,
		AnsweredAt: time.Now(),
	}
	if err := s.answerRepo.UpsertTheory(ctx, answer); err != nil {
		return nil, fmt.Errorf("save theory answer: %w", err)
	}
	return &model.SubmitAnswerResult{
		QuestionType: model.BankItemTheory,
		Message:      "answer saved, pending manual grading",
	}, nil
}
