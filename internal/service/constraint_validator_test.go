package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardenlabs/timetable-api/internal/dto"
	"github.com/ardenlabs/timetable-api/internal/models"
)

func TestConstraintApplies(t *testing.T) {
	entry := models.TimetableEntry{
		ClassID:   "c1",
		SubjectID: "math",
		TeacherID: "t1",
		RoomID:    strptr("r1"),
	}

	tests := []struct {
		name       string
		constraint models.Constraint
		noRoom     bool
		want       bool
	}{
		{
			name:       "global always applies",
			constraint: models.Constraint{Scope: models.ScopeGlobal},
			want:       true,
		},
		{
			name:       "scoped without target applies to whole scope",
			constraint: models.Constraint{Scope: models.ScopeTeacher},
			want:       true,
		},
		{
			name:       "scoped with empty target applies to whole scope",
			constraint: models.Constraint{Scope: models.ScopeTeacher, TargetID: strptr("")},
			want:       true,
		},
		{
			name:       "teacher target match",
			constraint: models.Constraint{Scope: models.ScopeTeacher, TargetID: strptr("t1")},
			want:       true,
		},
		{
			name:       "teacher target mismatch",
			constraint: models.Constraint{Scope: models.ScopeTeacher, TargetID: strptr("t2")},
			want:       false,
		},
		{
			name:       "class target match",
			constraint: models.Constraint{Scope: models.ScopeClass, TargetID: strptr("c1")},
			want:       true,
		},
		{
			name:       "subject target match",
			constraint: models.Constraint{Scope: models.ScopeSubject, TargetID: strptr("math")},
			want:       true,
		},
		{
			name:       "room target match",
			constraint: models.Constraint{Scope: models.ScopeRoom, TargetID: strptr("r1")},
			want:       true,
		},
		{
			name:       "room target against entry without room",
			constraint: models.Constraint{Scope: models.ScopeRoom, TargetID: strptr("r1")},
			noRoom:     true,
			want:       false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := entry
			if tc.noRoom {
				e.RoomID = nil
			}
			assert.Equal(t, tc.want, constraintApplies(tc.constraint, e))
		})
	}
}

func TestEntryValidGating(t *testing.T) {
	entry := models.TimetableEntry{ClassID: "c1", SubjectID: "math", TeacherID: "t1"}
	hard := constraintSpec{Constraint: models.Constraint{Type: models.ConstraintHard, Scope: models.ScopeGlobal}}
	soft := constraintSpec{Constraint: models.Constraint{Type: models.ConstraintSoft, Scope: models.ScopeGlobal}}

	tests := []struct {
		name        string
		constraints []constraintSpec
		opts        dto.GenerateOptions
		want        bool
	}{
		{
			name:        "validation off entirely",
			constraints: []constraintSpec{hard, soft},
			opts:        dto.GenerateOptions{},
			want:        true,
		},
		{
			name:        "hard enforced blocks",
			constraints: []constraintSpec{hard},
			opts:        dto.GenerateOptions{EnforceHardConstraints: true},
			want:        false,
		},
		{
			name:        "soft alone never blocks",
			constraints: []constraintSpec{soft},
			opts:        dto.GenerateOptions{EnforceHardConstraints: true, RespectSoftConstraints: true},
			want:        true,
		},
		{
			name:        "hard not enforced while soft respected",
			constraints: []constraintSpec{hard},
			opts:        dto.GenerateOptions{RespectSoftConstraints: true},
			want:        true,
		},
		{
			name:        "non-applicable hard passes",
			constraints: []constraintSpec{{Constraint: models.Constraint{Type: models.ConstraintHard, Scope: models.ScopeTeacher, TargetID: strptr("other")}}},
			opts:        dto.GenerateOptions{EnforceHardConstraints: true},
			want:        true,
		},
		{
			name:        "no constraints at all",
			constraints: nil,
			opts:        dto.GenerateOptions{EnforceHardConstraints: true, RespectSoftConstraints: true},
			want:        true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			run := newGenerationRun(&catalog{constraints: tc.constraints}, tc.opts)
			assert.Equal(t, tc.want, run.entryValid(entry))
		})
	}
}
