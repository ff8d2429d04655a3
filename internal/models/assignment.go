package models

import "time"

// ClassSubjectAssignment requires a class to receive a subject, optionally
// pinned to a preferred teacher and room. It is the generator's unit of work.
type ClassSubjectAssignment struct {
	ID              string    `db:"id" json:"id"`
	ClassID         string    `db:"class_id" json:"class_id"`
	SubjectID       string    `db:"subject_id" json:"subject_id"`
	TeacherID       *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	PreferredRoomID *string   `db:"preferred_room_id" json:"preferred_room_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ClassSubjectAssignmentDetail enriches assignments with descriptive fields.
type ClassSubjectAssignmentDetail struct {
	ClassSubjectAssignment
	ClassName   string  `db:"class_name" json:"class_name"`
	SubjectName string  `db:"subject_name" json:"subject_name"`
	SubjectCode string  `db:"subject_code" json:"subject_code"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// TeacherSubjectAssignment marks a teacher as eligible to teach a subject.
type TeacherSubjectAssignment struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
