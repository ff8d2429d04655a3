package dto

import "github.com/ardenlabs/timetable-api/internal/models"

// GenerateOptions tunes one timetable generation run.
// OptimizeTeacherWorkload and MinimizeRoomChanges are recognised but do not
// affect slot ranking yet; they are reserved for a future ranking function.
type GenerateOptions struct {
	OptimizeTeacherWorkload  bool `json:"optimizeTeacherWorkload"`
	MinimizeRoomChanges      bool `json:"minimizeRoomChanges"`
	PrioritizeMorningClasses bool `json:"prioritizeMorningClasses"`
	EnforceHardConstraints   bool `json:"enforceHardConstraints"`
	RespectSoftConstraints   bool `json:"respectSoftConstraints"`
}

// GenerationStats summarises a completed run.
type GenerationStats struct {
	TotalClasses      int `json:"totalClasses"`
	TotalEntries      int `json:"totalEntries"`
	ConflictsResolved int `json:"conflictsResolved"`
}

// GenerationResult is the outcome of one generation run. Conflicts lists
// non-fatal placement failures; Errors is only populated when the run aborts.
type GenerationResult struct {
	RunID     string                  `json:"runId"`
	Success   bool                    `json:"success"`
	Entries   []models.TimetableEntry `json:"entries"`
	Stats     GenerationStats         `json:"stats"`
	Conflicts []string                `json:"conflicts"`
	Errors    []string                `json:"errors,omitempty"`
}

// GenerateTimetableRequest is the POST body for generate/preview endpoints.
type GenerateTimetableRequest struct {
	Options GenerateOptions `json:"options"`
}

// ExportRequest queues an asynchronous timetable export.
type ExportRequest struct {
	ClassID string `json:"classId" validate:"required"`
	Format  string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse reports job state and, once completed, a signed download URL.
type ExportJobResponse struct {
	Job         models.ExportJob `json:"job"`
	DownloadURL string           `json:"download_url,omitempty"`
}
