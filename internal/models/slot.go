package models

import "time"

// ScheduleSlot is one recurring weekly lesson placement. Teacher and
// classroom are optional so a slot can be penciled in before those
// resources are picked. ValidFrom/ValidTo bound the validity window but
// are deliberately not consulted by conflict checks.
type ScheduleSlot struct {
	ID              string     `db:"id" json:"id"`
	GroupID         string     `db:"group_id" json:"group_id"`
	SubjectID       string     `db:"subject_id" json:"subject_id"`
	TeacherID       *string    `db:"teacher_id" json:"teacher_id,omitempty"`
	ClassroomID     *string    `db:"classroom_id" json:"classroom_id,omitempty"`
	DayOfWeek       int        `db:"day_of_week" json:"day_of_week"`
	LessonNumber    int        `db:"lesson_number" json:"lesson_number"`
	StartTime       ClockTime  `db:"start_time" json:"start_time"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	ValidFrom       *time.Time `db:"valid_from" json:"valid_from,omitempty"`
	ValidTo         *time.Time `db:"valid_to" json:"valid_to,omitempty"`
	GroupName       string     `db:"group_name" json:"group_name,omitempty"`
	SubjectName     string     `db:"subject_name" json:"subject_name,omitempty"`
	TeacherName     *string    `db:"teacher_name" json:"teacher_name,omitempty"`
	ClassroomName   *string    `db:"classroom_name" json:"classroom_name,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// SlotDraft is an in-flight slot assignment awaiting validation.
// ExcludeSlotID names the stored slot being edited so it is not
// compared against itself.
type SlotDraft struct {
	GroupID         string
	SubjectID       string
	TeacherID       *string
	ClassroomID     *string
	DayOfWeek       int
	LessonNumber    int
	StartTime       ClockTime
	DurationMinutes int
	ExcludeSlotID   string
}

// ConflictType identifies the resource axis a conflict was found on.
type ConflictType string

const (
	ConflictNone      ConflictType = "none"
	ConflictGroup     ConflictType = "group"
	ConflictTeacher   ConflictType = "teacher"
	ConflictClassroom ConflictType = "classroom"
)

// ConflictReport is the outcome of validating a slot draft. A failed
// validation is data, not an error; Message is shown to the user verbatim.
type ConflictReport struct {
	Valid             bool         `json:"valid"`
	ConflictType      ConflictType `json:"conflict_type"`
	Message           string       `json:"message"`
	ConflictingSlotID string       `json:"conflicting_slot_id,omitempty"`
}

// SlotConflict describes one conflict found for a stored slot.
type SlotConflict struct {
	Type    ConflictType `json:"type"`
	Message string       `json:"message"`
	Slot    ScheduleSlot `json:"slot"`
}

// SlotConflictPair is one teacher-time overlap surfaced by the global audit.
type SlotConflictPair struct {
	First  ScheduleSlot `json:"first"`
	Second ScheduleSlot `json:"second"`
}

// SlotConflictError carries a failed conflict report across the write path.
type SlotConflictError struct {
	Report ConflictReport `json:"report"`
}

// Error implements the error interface for conflict errors.
func (e *SlotConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Report.Message
}

// SlotFilter describes query params for listing slots.
type SlotFilter struct {
	GroupID     string
	TeacherID   string
	ClassroomID string
	SubjectID   string
	DayOfWeek   int
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
