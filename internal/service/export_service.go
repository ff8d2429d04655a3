package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
	"github.com/ardenlabs/timetable-api/pkg/export"
	"github.com/ardenlabs/timetable-api/pkg/jobs"
	"github.com/ardenlabs/timetable-api/pkg/storage"
)

type exportTimetableReader interface {
	ClassTimetable(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error)
}

type exportClassLookup interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type exportJobRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	UpdateStatus(ctx context.Context, id string, status models.ExportJobStatus, filePath, errorText *string) error
}

// ExportServiceConfig tunes the background export worker pool.
type ExportServiceConfig struct {
	Workers    int
	MaxRetries int
}

// ExportService renders class timetables to CSV and PDF, either inline or
// through background jobs whose artifacts are served via signed URLs.
type ExportService struct {
	timetables exportTimetableReader
	classes    exportClassLookup
	jobRepo    exportJobRepository
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	store      *storage.LocalStorage
	signer     *storage.SignedURLSigner
	queue      *jobs.Queue
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewExportService constructs an ExportService and its worker queue. Call
// Start before enqueuing jobs and Stop on shutdown.
func NewExportService(
	timetables exportTimetableReader,
	classes exportClassLookup,
	jobRepo exportJobRepository,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ExportServiceConfig,
) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		timetables: timetables,
		classes:    classes,
		jobRepo:    jobRepo,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		store:      store,
		signer:     signer,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
	s.queue = jobs.NewQueue("exports", s.processJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the background workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the background workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// RenderClass renders a class timetable inline in the requested format and
// returns the bytes plus a suggested filename and content type.
func (s *ExportService) RenderClass(ctx context.Context, classID, format string) ([]byte, string, string, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	entries, err := s.timetables.ClassTimetable(ctx, classID)
	if err != nil {
		return nil, "", "", err
	}

	switch strings.ToLower(format) {
	case "csv":
		data, err := s.csv.Render(timetableDataset(entries))
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, exportFilename(class.Name, "csv"), "text/csv", nil
	case "pdf":
		data, err := s.pdf.RenderGrid(timetableGrid(class.Name, entries))
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, exportFilename(class.Name, "pdf"), "application/pdf", nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// CreateJob queues an asynchronous export and returns the pending job.
func (s *ExportService) CreateJob(ctx context.Context, req dto.ExportRequest, requestedBy *string) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	job := &models.ExportJob{
		ID:          uuid.NewString(),
		ClassID:     req.ClassID,
		Format:      strings.ToLower(req.Format),
		Status:      models.ExportJobPending,
		RequestedBy: requestedBy,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "class_export", Payload: job.ID}); err != nil {
		message := "export queue unavailable"
		_ = s.jobRepo.UpdateStatus(ctx, job.ID, models.ExportJobFailed, nil, &message)
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, message)
	}
	return job, nil
}

// Job returns job state plus a signed download URL once completed.
func (s *ExportService) Job(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}

	resp := &dto.ExportJobResponse{Job: *job}
	if job.Status == models.ExportJobCompleted && job.FilePath != nil {
		token, _, err := s.signer.Generate(job.ID, *job.FilePath)
		if err != nil {
			s.logger.Warn("failed to sign download url", zap.String("job_id", job.ID), zap.Error(err))
		} else {
			resp.DownloadURL = fmt.Sprintf("/api/v1/exports/download/%s", token)
		}
	}
	return resp, nil
}

// ResolveDownload validates a signed token and returns the artifact path and
// a download filename.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (string, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job.Status != models.ExportJobCompleted || job.FilePath == nil || *job.FilePath != relPath {
		return "", "", appErrors.Clone(appErrors.ErrNotFound, "export artifact not available")
	}
	return s.store.Path(relPath), relPath, nil
}

// processJob is the queue handler: it renders the artifact, stores it, and
// records the final job status.
func (s *ExportService) processJob(ctx context.Context, job jobs.Job) error {
	jobID, ok := job.Payload.(string)
	if !ok || jobID == "" {
		s.logger.Error("export job with malformed payload", zap.String("job_id", job.ID))
		return nil
	}

	record, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", jobID, err)
	}
	if record.Status == models.ExportJobCompleted {
		return nil
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.ExportJobRunning, nil, nil); err != nil {
		return fmt.Errorf("mark export job running: %w", err)
	}

	data, filename, _, err := s.RenderClass(ctx, record.ClassID, record.Format)
	if err != nil {
		message := err.Error()
		_ = s.jobRepo.UpdateStatus(ctx, jobID, models.ExportJobFailed, nil, &message)
		s.metrics.ObserveExportJob(record.Format, "failed")
		return fmt.Errorf("render export job %s: %w", jobID, err)
	}

	storedName := fmt.Sprintf("%s-%s", jobID, filename)
	if _, err := s.store.Save(storedName, data); err != nil {
		message := err.Error()
		_ = s.jobRepo.UpdateStatus(ctx, jobID, models.ExportJobFailed, nil, &message)
		s.metrics.ObserveExportJob(record.Format, "failed")
		return fmt.Errorf("store export job %s: %w", jobID, err)
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.ExportJobCompleted, &storedName, nil); err != nil {
		return fmt.Errorf("mark export job completed: %w", err)
	}
	s.metrics.ObserveExportJob(record.Format, "completed")
	s.logger.Info("export job completed", zap.String("job_id", jobID), zap.String("file", storedName))
	return nil
}

// timetableDataset flattens timetable entries for CSV export.
func timetableDataset(entries []models.TimetableEntryDetail) export.Dataset {
	headers := []string{"Day", "Start", "End", "Subject", "Teacher", "Room"}
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		room := ""
		if entry.RoomName != nil {
			room = *entry.RoomName
		}
		rows = append(rows, map[string]string{
			"Day":     entry.DayOfWeek,
			"Start":   entry.StartTime,
			"End":     entry.EndTime,
			"Subject": entry.SubjectName,
			"Teacher": entry.TeacherName,
			"Room":    room,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// timetableGrid lays entries out as periods x days for PDF export.
func timetableGrid(title string, entries []models.TimetableEntryDetail) export.TimetableGrid {
	grid := export.TimetableGrid{
		Title: title,
		Cells: make(map[string]string),
	}

	daySeen := make(map[string]bool)
	type periodSlot struct {
		label string
		order int
	}
	periodSeen := make(map[string]int)
	var periodSlots []periodSlot

	for _, entry := range entries {
		daySeen[entry.DayOfWeek] = true
		label := fmt.Sprintf("%s-%s", entry.StartTime, entry.EndTime)
		if _, ok := periodSeen[label]; !ok {
			periodSeen[label] = entry.OrderIndex
			periodSlots = append(periodSlots, periodSlot{label: label, order: entry.OrderIndex})
		}
		cell := entry.SubjectName + "\n" + entry.TeacherName
		if entry.RoomName != nil {
			cell += " (" + *entry.RoomName + ")"
		}
		grid.Cells[export.CellKey(label, entry.DayOfWeek)] = cell
	}

	for _, day := range models.Weekdays {
		if daySeen[day] {
			grid.Days = append(grid.Days, day)
		}
	}
	sort.Slice(periodSlots, func(i, j int) bool { return periodSlots[i].order < periodSlots[j].order })
	for _, slot := range periodSlots {
		grid.Periods = append(grid.Periods, slot.label)
	}
	return grid
}

func exportFilename(className, ext string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(className), " ", "-"))
	if slug == "" {
		slug = "timetable"
	}
	return fmt.Sprintf("timetable-%s-%s.%s", slug, time.Now().UTC().Format("20060102"), ext)
}
