package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/models"
	appErrors "github.com/ardenlabs/timetable-api/pkg/errors"
	"github.com/ardenlabs/timetable-api/pkg/storage"
)

func TestExportServiceRenderClassCSV(t *testing.T) {
	service, _ := newExportFixture(t)

	data, filename, contentType, err := service.RenderClass(context.Background(), "c1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasPrefix(filename, "timetable-class-1a-"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	body := string(data)
	assert.Contains(t, body, "Day,Start,End,Subject,Teacher,Room")
	assert.Contains(t, body, "MONDAY,08:00,09:00,Mathematics,Ada Prima,R101")
}

func TestExportServiceRenderClassPDF(t *testing.T) {
	service, _ := newExportFixture(t)

	data, filename, contentType, err := service.RenderClass(context.Background(), "c1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "pdf output must carry the format magic")
}

func TestExportServiceRenderClassUnknownFormat(t *testing.T) {
	service, _ := newExportFixture(t)

	_, _, _, err := service.RenderClass(context.Background(), "c1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceRenderClassNotFound(t *testing.T) {
	service, fx := newExportFixture(t)
	fx.classes.findErr = sql.ErrNoRows

	_, _, _, err := service.RenderClass(context.Background(), "ghost", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportServiceJobLifecycle(t *testing.T) {
	service, fx := newExportFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	service.Start(ctx)
	defer service.Stop()

	requestedBy := "u1"
	job, err := service.CreateJob(ctx, dto.ExportRequest{ClassID: "c1", Format: "csv"}, &requestedBy)
	require.NoError(t, err)
	assert.Equal(t, models.ExportJobPending, job.Status)

	require.Eventually(t, func() bool {
		record, err := fx.jobs.FindByID(ctx, job.ID)
		if err != nil {
			return false
		}
		return record.Status == models.ExportJobCompleted
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := service.Job(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportJobCompleted, resp.Job.Status)
	assert.True(t, strings.HasPrefix(resp.DownloadURL, "/api/v1/exports/download/"))

	token := strings.TrimPrefix(resp.DownloadURL, "/api/v1/exports/download/")
	path, relPath, err := service.ResolveDownload(ctx, token)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	require.NotNil(t, resp.Job.FilePath)
	assert.Equal(t, *resp.Job.FilePath, relPath)
}

func TestExportServiceCreateJobInvalidFormat(t *testing.T) {
	service, _ := newExportFixture(t)

	_, err := service.CreateJob(context.Background(), dto.ExportRequest{ClassID: "c1", Format: "docx"}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceResolveDownloadBadToken(t *testing.T) {
	service, _ := newExportFixture(t)

	_, _, err := service.ResolveDownload(context.Background(), "garbage")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestExportServiceJobNotFound(t *testing.T) {
	service, _ := newExportFixture(t)

	_, err := service.Job(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableGridLayout(t *testing.T) {
	room := "R101"
	entries := []models.TimetableEntryDetail{
		{SubjectName: "Science", TeacherName: "Ben", DayOfWeek: "TUESDAY", StartTime: "09:00", EndTime: "10:00", OrderIndex: 2},
		{SubjectName: "Mathematics", TeacherName: "Ada", RoomName: &room, DayOfWeek: "MONDAY", StartTime: "08:00", EndTime: "09:00", OrderIndex: 1},
	}

	grid := timetableGrid("Class 1A", entries)
	assert.Equal(t, "Class 1A", grid.Title)
	assert.Equal(t, []string{"MONDAY", "TUESDAY"}, grid.Days, "days follow calendar order")
	assert.Equal(t, []string{"08:00-09:00", "09:00-10:00"}, grid.Periods, "periods follow order index")
	assert.Equal(t, "Mathematics\nAda (R101)", grid.Cells["08:00-09:00|MONDAY"])
	assert.Equal(t, "Science\nBen", grid.Cells["09:00-10:00|TUESDAY"])
}

// --- Fixtures ---

type exportFixture struct {
	classes *exportClassStub
	jobs    *exportJobRepoStub
}

func newExportFixture(t *testing.T) (*ExportService, *exportFixture) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	room := "R101"
	fx := &exportFixture{
		classes: &exportClassStub{class: &models.Class{ID: "c1", Name: "Class 1A"}},
		jobs:    &exportJobRepoStub{records: map[string]*models.ExportJob{}},
	}
	timetables := exportTimetableStub{entries: []models.TimetableEntryDetail{
		{
			TimetableEntry: models.TimetableEntry{ClassID: "c1", SubjectID: "math", TeacherID: "t1"},
			SubjectName:    "Mathematics",
			TeacherName:    "Ada Prima",
			RoomName:       &room,
			DayOfWeek:      "MONDAY",
			StartTime:      "08:00",
			EndTime:        "09:00",
			OrderIndex:     1,
		},
	}}

	service := NewExportService(timetables, fx.classes, fx.jobs, store, signer, nil, nil, nil, ExportServiceConfig{Workers: 1})
	return service, fx
}

type exportTimetableStub struct {
	entries []models.TimetableEntryDetail
}

func (s exportTimetableStub) ClassTimetable(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error) {
	return s.entries, nil
}

type exportClassStub struct {
	class   *models.Class
	findErr error
}

func (s *exportClassStub) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.class, nil
}

type exportJobRepoStub struct {
	mu      sync.Mutex
	records map[string]*models.ExportJob
}

func (r *exportJobRepoStub) Create(ctx context.Context, job *models.ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *job
	r.records[job.ID] = &copied
	return nil
}

func (r *exportJobRepoStub) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (r *exportJobRepoStub) UpdateStatus(ctx context.Context, id string, status models.ExportJobStatus, filePath, errorText *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	job.Status = status
	job.FilePath = filePath
	job.ErrorText = errorText
	return nil
}
