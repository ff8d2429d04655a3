package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ConstraintType distinguishes blocking rules from preferences.
type ConstraintType string

const (
	ConstraintHard ConstraintType = "hard"
	ConstraintSoft ConstraintType = "soft"
)

// ConstraintScope selects which entry attribute a constraint targets.
type ConstraintScope string

const (
	ScopeSubject ConstraintScope = "subject"
	ScopeTeacher ConstraintScope = "teacher"
	ScopeClass   ConstraintScope = "class"
	ScopeRoom    ConstraintScope = "room"
	ScopeGlobal  ConstraintScope = "global"
)

// Known rule kinds. Rule bodies are decoded and validated at load but their
// semantics are not evaluated yet; scope/target matching alone decides
// applicability.
const (
	RuleKindTimeExclusion = "time_exclusion"
	RuleKindDailyLimit    = "daily_limit"
	RuleKindNote          = "note"
)

// ConstraintRule is the typed rule payload stored on a constraint.
type ConstraintRule struct {
	Kind      string   `json:"kind"`
	Days      []string `json:"days,omitempty"`
	TimeRange string   `json:"time_range,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// Validate checks the rule payload is one of the known shapes.
func (r ConstraintRule) Validate() error {
	switch r.Kind {
	case "", RuleKindNote:
		return nil
	case RuleKindTimeExclusion:
		for _, day := range r.Days {
			if !IsWeekday(strings.ToUpper(day)) {
				return fmt.Errorf("unknown rule day %q", day)
			}
		}
		if r.TimeRange != "" && !strings.Contains(r.TimeRange, "-") {
			return fmt.Errorf("time_range %q must be start-end", r.TimeRange)
		}
		return nil
	case RuleKindDailyLimit:
		if r.Limit <= 0 {
			return fmt.Errorf("daily_limit requires a positive limit")
		}
		return nil
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
}

// ParseConstraintRule decodes and validates a rule JSON column.
func ParseConstraintRule(raw types.JSONText) (ConstraintRule, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return ConstraintRule{}, nil
	}
	var rule ConstraintRule
	if err := json.Unmarshal(raw, &rule); err != nil {
		return ConstraintRule{}, fmt.Errorf("decode constraint rule: %w", err)
	}
	if err := rule.Validate(); err != nil {
		return ConstraintRule{}, err
	}
	return rule, nil
}

// Constraint is a scheduling rule evaluated against candidate entries.
type Constraint struct {
	ID        string          `db:"id" json:"id"`
	Type      ConstraintType  `db:"type" json:"type"`
	Scope     ConstraintScope `db:"scope" json:"scope"`
	TargetID  *string         `db:"target_id" json:"target_id,omitempty"`
	Rule      types.JSONText  `db:"rule" json:"rule,omitempty"`
	Priority  int             `db:"priority" json:"priority"`
	IsActive  bool            `db:"is_active" json:"is_active"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// ConstraintFilter defines filters for listing constraints.
type ConstraintFilter struct {
	Type     ConstraintType
	Scope    ConstraintScope
	Active   *bool
	Page     int
	PageSize int
}
