package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type timetableRepository interface {
	DeleteGeneratedWithTx(ctx context.Context, tx *sqlx.Tx) error
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, entries []models.TimetableEntry) error
	TouchMetaWithTx(ctx context.Context, tx *sqlx.Tx, runID string, generatedAt time.Time) error
	ListByClass(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntryDetail, error)
	Meta(ctx context.Context) (*models.TimetableMeta, error)
}

type timetableGenerator interface {
	Generate(ctx context.Context, opts dto.GenerateOptions) *dto.GenerationResult
}

// TimetableService owns the persisted timetable: it runs the generator,
// swaps the stored schedule transactionally, and serves cached views.
type TimetableService struct {
	db        txProvider
	repo      timetableRepository
	generator timetableGenerator
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService. cache may be nil, in
// which case reads always hit the database.
func NewTimetableService(db txProvider, repo timetableRepository, generator timetableGenerator, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &TimetableService{db: db, repo: repo, generator: generator, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Preview runs the generator without touching stored entries.
func (s *TimetableService) Preview(ctx context.Context, opts dto.GenerateOptions) *dto.GenerationResult {
	return s.generator.Generate(ctx, opts)
}

// GenerateAndStore runs the generator and, on success, replaces all
// previously generated entries in one transaction. Manually added entries
// are left untouched.
func (s *TimetableService) GenerateAndStore(ctx context.Context, opts dto.GenerateOptions) (*dto.GenerationResult, error) {
	result := s.generator.Generate(ctx, opts)
	if !result.Success {
		return result, appErrors.Clone(appErrors.ErrPreconditionFailed, "timetable generation failed")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.repo.DeleteGeneratedWithTx(ctx, tx); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear generated entries")
	}
	if err := s.repo.BulkCreateWithTx(ctx, tx, result.Entries); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store generated entries")
	}
	if err := s.repo.TouchMetaWithTx(ctx, tx, result.RunID, time.Now().UTC()); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable metadata")
	}
	if err := tx.Commit(); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable")
	}

	s.invalidateCache(ctx)
	s.logger.Info("timetable stored",
		zap.String("run_id", result.RunID),
		zap.Int("entries", len(result.Entries)))
	return result, nil
}

// ClassTimetable returns the stored weekly timetable for one class.
func (s *TimetableService) ClassTimetable(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error) {
	key := fmt.Sprintf("timetable:class:%s", classID)
	if cached, ok := s.cachedEntries(ctx, key); ok {
		return cached, nil
	}
	entries, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class timetable")
	}
	s.storeEntries(ctx, key, entries)
	return entries, nil
}

// TeacherTimetable returns the stored weekly timetable for one teacher.
func (s *TimetableService) TeacherTimetable(ctx context.Context, teacherID string) ([]models.TimetableEntryDetail, error) {
	key := fmt.Sprintf("timetable:teacher:%s", teacherID)
	if cached, ok := s.cachedEntries(ctx, key); ok {
		return cached, nil
	}
	entries, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher timetable")
	}
	s.storeEntries(ctx, key, entries)
	return entries, nil
}

// Meta returns the last generation bookkeeping record, or nil when no run
// has been stored yet.
func (s *TimetableService) Meta(ctx context.Context) (*models.TimetableMeta, error) {
	meta, err := s.repo.Meta(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable metadata")
	}
	return meta, nil
}

func (s *TimetableService) cachedEntries(ctx context.Context, key string) ([]models.TimetableEntryDetail, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []models.TimetableEntryDetail
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *TimetableService) storeEntries(ctx context.Context, key string, entries []models.TimetableEntryDetail) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("timetable cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *TimetableService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, pattern := range []string{"timetable:class:*", "timetable:teacher:*"} {
		iter := s.cache.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
				s.logger.Debug("timetable cache invalidation failed", zap.String("key", iter.Val()), zap.Error(err))
			}
		}
	}
}
