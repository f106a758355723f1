package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/repository"
	"github.com/google/uuid"
)

// QuestionSelector builds the per-attempt question list. Manual exams
// copy the template preserving authored order; the randomize flag has
// no effect there. Random exams sample approved items per kind and
// shuffle the combined set when the exam asks for it.
type QuestionSelector struct {
	bankRepo     *repository.BankItemRepository
	examItemRepo *repository.ExamItemRepository
}

// NewQuestionSelector creates a new QuestionSelector.
func NewQuestionSelector(bankRepo *repository.BankItemRepository, examItemRepo *repository.ExamItemRepository) *QuestionSelector {
	return &QuestionSelector{bankRepo: bankRepo, examItemRepo: examItemRepo}
}

// SelectForAttempt resolves the question IDs for a new attempt and
// persists them as attempt-scoped exam items inside the caller's
// transaction. Returns the ordered question IDs.
func (s *QuestionSelector) SelectForAttempt(ctx context.Context, q repository.Querier, exam *model.Exam, attemptID uuid.UUID, rng *rand.Rand) ([]uuid.UUID, error) {
	var questionIDs []uuid.UUID

	switch exam.SelectionMode {
	case model.SelectionManual:
		templates, err := s.examItemRepo.ListTemplates(ctx, q, exam.ID)
		if err != nil {
			return nil, fmt.Errorf("load exam template: %w", err)
		}
		questionIDs = make([]uuid.UUID, 0, len(templates))
		for _, t := range templates {
			questionIDs = append(questionIDs, t.QuestionID)
		}
	case model.SelectionRandom:
		objective, err := s.sampleKind(ctx, q, exam, model.BankItemObjective, exam.ObjectiveCount, rng)
		if err != nil {
			return nil, err
		}
		theory, err := s.sampleKind(ctx, q, exam, model.BankItemTheory, exam.TheoryCount, rng)
		if err != nil {
			return nil, err
		}
		questionIDs = append(objective, theory...)
		if exam.Randomize {
			shuffleIDs(questionIDs, rng)
		}
	default:
		return nil, fmt.Errorf("unknown selection mode %q", exam.SelectionMode)
	}

	items := make([]model.ExamItem, len(questionIDs))
	for i, qid := range questionIDs {
		items[i] = model.ExamItem{
			ExamID:     exam.ID,
			AttemptID:  &attemptID,
			QuestionID: qid,
			OrderNum:   i + 1,
		}
	}
	if err := s.examItemRepo.CreateAttemptItems(ctx, q, items); err != nil {
		return nil, fmt.Errorf("persist attempt items: %w", err)
	}
	return questionIDs, nil
}

func (s *QuestionSelector) sampleKind(ctx context.Context, q repository.Querier, exam *model.Exam, kind model.BankItemKind, count int, rng *rand.Rand) ([]uuid.UUID, error) {
	if count <= 0 {
		return nil, nil
	}
	pool, err := s.bankRepo.ListApproved(ctx, q, exam.CourseID, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s pool: %w", kind, err)
	}
	ids := make([]uuid.UUID, 0, len(pool))
	for _, item := range pool {
		ids = append(ids, item.ID)
	}
	return sampleWithoutReplacement(ids, count, rng), nil
}

// sampleWithoutReplacement draws up to count distinct IDs from the
// pool. A short pool yields the entire pool, not an error.
func sampleWithoutReplacement(pool []uuid.UUID, count int, rng *rand.Rand) []uuid.UUID {
	if count >= len(pool) {
		out := make([]uuid.UUID, len(pool))
		copy(out, pool)
		shuffleIDs(out, rng)
		return out
	}
	// Partial Fisher-Yates: the first count slots are a uniform sample.
	out := make([]uuid.UUID, len(pool))
	copy(out, pool)
	for i := 0; i < count; i++ {
		j := i + rng.Intn(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:count]
}

func shuffleIDs(ids []uuid.UUID, rng *rand.Rand) {
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}
