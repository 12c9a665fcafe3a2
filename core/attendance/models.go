package attendance

import (
	"time"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
)

// Final statuses
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusLate    = "LATE"
	StatusExcused = "EXCUSED"
)

var allStatuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// ValidStatus reports whether s is a supported attendance status.
func ValidStatus(s string) bool {
	for _, st := range allStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Lesson is one held session of a class.
type Lesson struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"class_id"`
	TeacherID   string    `json:"teacher_id"`
	Date        time.Time `json:"date"` // UTC
	HoursWorked float64   `json:"hours_worked"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// NewLesson contains information needed to record a held Lesson.
type NewLesson struct {
	ClassID     string    `json:"class_id" validate:"required"`
	TeacherID   string    `json:"teacher_id" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	HoursWorked float64   `json:"hours_worked" validate:"gt=0"`
}

func (nl NewLesson) Validate() error { return core.Validate.Struct(nl) }

// Observation is one raw attendance entry as submitted by a teacher, before
// classification.
type Observation struct {
	StudentID string `json:"student_id" validate:"required"`
	LessonID  string `json:"-"` // set by the submission service

	Status         string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	ArrivalMinutes *int   `json:"arrival_minutes,omitempty"` // minutes after lesson start
	ExcuseReason   string `json:"excuse_reason,omitempty"`
}

func (o Observation) Validate() error { return core.Validate.Struct(o) }

// Record is the classified, final form of an Observation. Once written it is
// immutable; a (lesson, student) pair has at most one Record.
type Record struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	LessonID     string    `json:"lesson_id"`
	Status       string    `json:"status"`
	PolicyID     string    `json:"policy_id"`
	AppliedRules []string  `json:"applied_rules"` // ordered audit trail
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}
