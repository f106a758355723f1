package main

import (
	"context"
	"fmt"
	"time"

	"github.com/courseloop/assessment-backend/internal/config"
	"github.com/courseloop/assessment-backend/internal/database"
	"github.com/courseloop/assessment-backend/internal/logger"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	seedStaffID   = 100
	seedYear      = 2026
	seedSemester  = 1
	studentCount  = 20
	objectiveSeed = 8
	theorySeed    = 3
)

// Seeds a demo course with enrolled students, a question pool, and one
// published random-selection exam, so the API can be exercised end to
// end right after migrating.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Println("=== Seeding demo course ===")

	courseID := uuid.New()
	if _, err := pool.Exec(ctx,
		`INSERT INTO courses (id, owner_id, title) VALUES ($1, $2, $3)`,
		courseID, seedStaffID, "Intro to Distributed Systems",
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}
	fmt.Printf("Course %s owned by staff %d\n", courseID, seedStaffID)

	for studentID := 1; studentID <= studentCount; studentID++ {
		if _, err := pool.Exec(ctx,
			`INSERT INTO enrollments (student_id, course_id, academic_year, semester)
			 VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			studentID, courseID, seedYear, seedSemester,
		); err != nil {
			log.Fatal().Err(err).Int("student_id", studentID).Msg("Failed to enroll student")
		}
	}
	fmt.Printf("Enrolled students 1..%d\n", studentCount)

	bankRepo := repository.NewBankItemRepository(pool)

	for i := 1; i <= objectiveSeed; i++ {
		correct := "a"
		item := &model.BankItem{
			CourseID:     courseID,
			CreatorID:    seedStaffID,
			Kind:         model.BankItemObjective,
			Difficulty:   "medium",
			Topic:        "fundamentals",
			Tags:         []string{"seed"},
			Status:       model.BankItemApproved,
			QuestionText: fmt.Sprintf("Objective question %d: which option is correct?", i),
			Options: []model.QuestionOption{
				{ID: "a", Text: "The first option"},
				{ID: "b", Text: "The second option"},
				{ID: "c", Text: "The third option"},
				{ID: "d", Text: "The fourth option"},
			},
			CorrectOpt: &correct,
			Points:     1,
		}
		if err := bankRepo.Create(ctx, item); err != nil {
			log.Fatal().Err(err).Msg("Failed to create objective item")
		}
	}

	rubric := "Full marks for a complete argument with an example."
	for i := 1; i <= theorySeed; i++ {
		item := &model.BankItem{
			CourseID:     courseID,
			CreatorID:    seedStaffID,
			Kind:         model.BankItemTheory,
			Difficulty:   "hard",
			Topic:        "fundamentals",
			Tags:         []string{"seed"},
			Status:       model.BankItemApproved,
			QuestionText: fmt.Sprintf("Theory question %d: explain and justify.", i),
			MaxMarks:     10,
			Rubric:       &rubric,
		}
		if err := bankRepo.Create(ctx, item); err != nil {
			log.Fatal().Err(err).Msg("Failed to create theory item")
		}
	}
	fmt.Printf("Created %d objective + %d theory approved bank items\n", objectiveSeed, theorySeed)

	examRepo := repository.NewExamRepository(pool)
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(14 * 24 * time.Hour)
	exam := &model.Exam{
		CourseID:        courseID,
		AcademicYear:    seedYear,
		Semester:        seedSemester,
		Title:           "Midterm Assessment",
		Instructions:    "Answer every question. Theory answers are graded manually.",
		StartAt:         &start,
		EndAt:           &end,
		DurationMinutes: 90,
		Visibility:      model.ExamPublished,
		Randomize:       true,
		ExamType:        model.ExamTypeMixed,
		SelectionMode:   model.SelectionRandom,
		ObjectiveCount:  5,
		TheoryCount:     2,
		MaxAttempts:     model.DefaultMaxAttempts,
		CreatedBy:       seedStaffID,
	}
	if err := examRepo.Create(ctx, pool, exam); err != nil {
		log.Fatal().Err(err).Msg("Failed to create exam")
	}
	fmt.Printf("Published exam %s\n", exam.ID)
	fmt.Println("=== Done ===")
}
