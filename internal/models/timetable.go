package models

import "time"

// TimetableEntry is one committed (class, subject, teacher, room?, period)
// assignment. Entries produced by the generator carry IsGenerated=true and are
// replaced wholesale on the next run.
type TimetableEntry struct {
	ID           string    `db:"id" json:"id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	RoomID       *string   `db:"room_id" json:"room_id,omitempty"`
	TimePeriodID string    `db:"time_period_id" json:"time_period_id"`
	WeekNumber   int       `db:"week_number" json:"week_number"`
	IsGenerated  bool      `db:"is_generated" json:"is_generated"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TimetableEntryDetail joins an entry with display names for timetable views.
type TimetableEntryDetail struct {
	TimetableEntry
	ClassName   string  `db:"class_name" json:"class_name"`
	SubjectName string  `db:"subject_name" json:"subject_name"`
	SubjectCode string  `db:"subject_code" json:"subject_code"`
	TeacherName string  `db:"teacher_name" json:"teacher_name"`
	RoomName    *string `db:"room_name" json:"room_name,omitempty"`
	DayOfWeek   string  `db:"day_of_week" json:"day_of_week"`
	StartTime   string  `db:"start_time" json:"start_time"`
	EndTime     string  `db:"end_time" json:"end_time"`
	OrderIndex  int     `db:"order_index" json:"order_index"`
}

// TimetableMeta records catalog-level generation bookkeeping.
type TimetableMeta struct {
	ID              string    `db:"id" json:"id"`
	LastRunID       string    `db:"last_run_id" json:"last_run_id"`
	LastGeneratedAt time.Time `db:"last_generated_at" json:"last_generated_at"`
}

// ExportJobStatus tracks async export lifecycle.
type ExportJobStatus string

const (
	ExportJobPending   ExportJobStatus = "PENDING"
	ExportJobRunning   ExportJobStatus = "RUNNING"
	ExportJobCompleted ExportJobStatus = "COMPLETED"
	ExportJobFailed    ExportJobStatus = "FAILED"
)

// ExportJob is an asynchronous timetable export request.
type ExportJob struct {
	ID          string          `db:"id" json:"id"`
	ClassID     string          `db:"class_id" json:"class_id"`
	Format      string          `db:"format" json:"format"`
	Status      ExportJobStatus `db:"status" json:"status"`
	FilePath    *string         `db:"file_path" json:"file_path,omitempty"`
	ErrorText   *string         `db:"error_text" json:"error_text,omitempty"`
	RequestedBy *string         `db:"requested_by" json:"requested_by,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
