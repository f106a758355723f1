package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courseloop/assessment-backend/internal/config"
	"github.com/courseloop/assessment-backend/internal/directory"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/repository"
	"github.com/courseloop/assessment-backend/internal/response"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors shared across services.
var (
	ErrNotCourseOwner      = errors.New("principal does not own this course")
	ErrCorrectOptionUnset  = errors.New("correct option is not a member of the option set")
	ErrPayloadKindMismatch = errors.New("payload does not match question kind")
	ErrItemReferenced      = errors.New("bank item is referenced by exam items")
)

// BankService handles question-bank business logic. Single-item reads
// go through an explicit Redis cache with a bounded TTL; writes
// invalidate after the row is committed, so a read racing the write
// caches at worst the pre-write row until that invalidation lands.
type BankService struct {
	bankRepo *repository.BankItemRepository
	dir      directory.Directory
	rdb      *redis.Client
	cfg      *config.Config
	log      zerolog.Logger
}

// NewBankService creates a new BankService.
func NewBankService(
	bankRepo *repository.BankItemRepository,
	dir directory.Directory,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *BankService {
	return &BankService{
		bankRepo: bankRepo,
		dir:      dir,
		rdb:      rdb,
		cfg:      cfg,
		log:      log.With().Str("component", "bank_service").Logger(),
	}
}

// canModifyCourseContent allows course owners and administrators.
func (s *BankService) canModifyCourseContent(ctx context.Context, courseID uuid.UUID, claims *Claims) error {
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

// validatePayload enforces the exactly-one-payload invariant: objective
// items must carry options with a member correct option; theory items
// must carry max marks and no option set.
func validatePayload(b *model.BankItem) error {
	switch b.Kind {
	case model.BankItemObjective:
		if len(b.Options) == 0 || b.CorrectOpt == nil || b.MaxMarks != 0 || b.Rubric != nil {
			return ErrPayloadKindMismatch
		}
		if !b.HasOption(*b.CorrectOpt) {
			return ErrCorrectOptionUnset
		}
		if b.Points <= 0 {
			b.Points = 1
		}
	case model.BankItemTheory:
		if len(b.Options) != 0 || b.CorrectOpt != nil || b.Points != 0 {
			return ErrPayloadKindMismatch
		}
		if b.MaxMarks <= 0 {
			return ErrPayloadKindMismatch
		}
	default:
		return ErrPayloadKindMismatch
	}
	return nil
}

// Create validates and inserts a new bank item.
func (s *BankService) Create(ctx context.Context, claims *Claims, req *model.CreateBankItemRequest) (*model.BankItem, error) {
	if err := s.canModifyCourseContent(ctx, req.CourseID, claims); err != nil {
		return nil, err
	}

	status := model.BankItemDraft
	if req.Status != "" {
		status = model.BankItemStatus(req.Status)
	}

	item := &model.BankItem{
		CourseID:     req.CourseID,
		CreatorID:    claims.PrincipalID,
		Kind:         model.BankItemKind(req.Kind),
		Difficulty:   req.Difficulty,
		Topic:        req.Topic,
		Tags:         req.Tags,
		Status:       status,
		SourceRef:    req.SourceRef,
		QuestionText: req.QuestionText,
		Options:      req.Options,
		CorrectOpt:   req.CorrectOpt,
		Points:       req.Points,
		MaxMarks:     req.MaxMarks,
		Rubric:       req.Rubric,
		ImageURL:     req.ImageURL,
		VideoURL:     req.VideoURL,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	if err := validatePayload(item); err != nil {
		return nil, err
	}

	if err := s.bankRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create bank item: %w", err)
	}
	return item, nil
}

// GetByID reads a bank item through the Redis cache. Cache failures
// degrade to a direct PostgreSQL read.
func (s *BankService) GetByID(ctx context.Context, claims *Claims, id uuid.UUID) (*model.BankItem, error) {
	key := config.CacheKey.BankItemKey(id.String())

	if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached model.BankItem
		if err := json.Unmarshal(raw, &cached); err == nil {
			if err := s.canModifyCourseContent(ctx, cached.CourseID, claims); err != nil {
				return nil, err
			}
			return &cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("bank cache read failed, falling back to store")
	}

	item, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canModifyCourseContent(ctx, item.CourseID, claims); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(item); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.cfg.BankCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("bank cache write failed")
		}
	}
	return item, nil
}

// List retrieves bank items for a course with filters and pagination.
func (s *BankService) List(ctx context.Context, claims *Claims, f model.BankItemFilter, page, perPage int) ([]model.BankItem, *response.Pagination, error) {
	if err := s.canModifyCourseContent(ctx, f.CourseID, claims); err != nil {
		return nil, nil, err
	}

	page, perPage = normalizePage(page, perPage)
	items, total, err := s.bankRepo.List(ctx, f, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if items == nil {
		items = []model.BankItem{}
	}
	return items, buildPagination(page, perPage, total), nil
}

// Update applies a partial patch: only fields present in the request
// change. The cache entry is dropped once the write has committed.
func (s *BankService) Update(ctx context.Context, claims *Claims, id uuid.UUID, req *model.UpdateBankItemRequest) (*model.BankItem, error) {
	item, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canModifyCourseContent(ctx, item.CourseID, claims); err != nil {
		return nil, err
	}

	applyBankItemPatch(item, req)
	if err := validatePayload(item); err != nil {
		return nil, err
	}

	if err := s.bankRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update bank item: %w", err)
	}
	s.invalidate(ctx, id)
	return item, nil
}

// Delete removes a bank item unless exam items still reference it.
func (s *BankService) Delete(ctx context.Context, claims *Claims, id uuid.UUID) error {
	item, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.canModifyCourseContent(ctx, item.CourseID, claims); err != nil {
		return err
	}

	refs, err := s.bankRepo.CountExamReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return ErrItemReferenced
	}

	if err := s.bankRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *BankService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.rdb.Del(ctx, config.CacheKey.BankItemKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("item_id", id.String()).Msg("bank cache invalidation failed")
	}
}

// applyBankItemPatch copies only the fields present in the request.
func applyBankItemPatch(item *model.BankItem, req *model.UpdateBankItemRequest) {
	if req.Difficulty != nil {
		item.Difficulty = *req.Difficulty
	}
	if req.Topic != nil {
		item.Topic = *req.Topic
	}
	if req.Tags != nil {
		item.Tags = *req.Tags
	}
	if req.Status != nil {
		item.Status = model.BankItemStatus(*req.Status)
	}
	if req.QuestionText != nil {
		item.QuestionText = *req.QuestionText
	}
	if req.Options != nil {
		item.Options = *req.Options
	}
	if req.CorrectOpt != nil {
		item.CorrectOpt = req.CorrectOpt
	}
	if req.Points != nil {
		item.Points = *req.Points
	}
	if req.MaxMarks != nil {
		item.MaxMarks = *req.MaxMarks
	}
	if req.Rubric != nil {
		item.Rubric = req.Rubric
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.VideoURL != nil {
		item.VideoURL = req.VideoURL
	}
}

// IsNoRows reports whether err is the store's missing-row error.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

func buildPagination(page, perPage int, total int64) *response.Pagination {
	totalPages := (int(total) + perPage - 1) / perPage
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	}
}
