package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edutrack/timetable-api/internal/models"
	appErrors "github.com/edutrack/timetable-api/pkg/errors"
)

type slotReader interface {
	SlotsForGroupOnDay(ctx context.Context, groupID string, day int, excludeID string) ([]models.ScheduleSlot, error)
	SlotsForTeacherOnDay(ctx context.Context, teacherID string, day int, excludeID string) ([]models.ScheduleSlot, error)
	SlotsForClassroomOnDay(ctx context.Context, classroomID string, day int, excludeID string) ([]models.ScheduleSlot, error)
}

// Overlaps reports whether two half-open [start, start+duration) intervals
// on the same day intersect. Touching intervals do not overlap, so
// back-to-back lessons are legal. Callers must ensure start+duration does
// not cross midnight.
func Overlaps(start1 models.ClockTime, duration1 int, start2 models.ClockTime, duration2 int) bool {
	lower := start1
	if start2 > lower {
		lower = start2
	}
	upper := start1.Add(duration1)
	if end2 := start2.Add(duration2); end2 < upper {
		upper = end2
	}
	return lower < upper
}

// ConflictService validates slot drafts against the stored timetable.
// It is stateless: every call reads a fresh snapshot through the slot reader.
type ConflictService struct {
	repo   slotReader
	logger *zap.Logger
}

// NewConflictService instantiates ConflictService.
func NewConflictService(repo slotReader, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{repo: repo, logger: logger}
}

// axisProbe describes one resource axis of the validation walk: how to
// fetch competing slots and when an overlap is tolerated as a shared lesson.
type axisProbe struct {
	kind        models.ConflictType
	fetch       func(ctx context.Context) ([]models.ScheduleSlot, error)
	allowShared func(existing models.ScheduleSlot) bool
	describe    func(existing models.ScheduleSlot) string
}

// Validate checks a draft against existing slots on the same day across the
// group, teacher and classroom axes, in that order, stopping at the first
// conflict. A group may never have two overlapping lessons; teacher and
// classroom overlaps are tolerated only for shared lessons (the same subject
// taught at the same start time, and for classrooms also the same teacher).
func (s *ConflictService) Validate(ctx context.Context, draft models.SlotDraft) (models.ConflictReport, error) {
	if err := checkDraft(draft); err != nil {
		return models.ConflictReport{}, err
	}

	axes := []axisProbe{
		{
			kind: models.ConflictGroup,
			fetch: func(ctx context.Context) ([]models.ScheduleSlot, error) {
				return s.repo.SlotsForGroupOnDay(ctx, draft.GroupID, draft.DayOfWeek, draft.ExcludeSlotID)
			},
			allowShared: nil,
			describe: func(existing models.ScheduleSlot) string {
				return fmt.Sprintf("conflict: lesson #%d (%s) overlaps this time",
					existing.LessonNumber, existing.StartTime)
			},
		},
	}

	if draft.TeacherID != nil {
		axes = append(axes, axisProbe{
			kind: models.ConflictTeacher,
			fetch: func(ctx context.Context) ([]models.ScheduleSlot, error) {
				return s.repo.SlotsForTeacherOnDay(ctx, *draft.TeacherID, draft.DayOfWeek, draft.ExcludeSlotID)
			},
			allowShared: func(existing models.ScheduleSlot) bool {
				return existing.SubjectID == draft.SubjectID && existing.StartTime == draft.StartTime
			},
			describe: func(existing models.ScheduleSlot) string {
				return fmt.Sprintf("teacher %s is already busy with group %s on '%s' at %s (ID: %s)",
					displayName(existing.TeacherName), existing.GroupName, existing.SubjectName, existing.StartTime, existing.ID)
			},
		})
	}

	if draft.ClassroomID != nil {
		axes = append(axes, axisProbe{
			kind: models.ConflictClassroom,
			fetch: func(ctx context.Context) ([]models.ScheduleSlot, error) {
				return s.repo.SlotsForClassroomOnDay(ctx, *draft.ClassroomID, draft.DayOfWeek, draft.ExcludeSlotID)
			},
			allowShared: func(existing models.ScheduleSlot) bool {
				return sameTeacher(existing.TeacherID, draft.TeacherID) &&
					existing.SubjectID == draft.SubjectID &&
					existing.StartTime == draft.StartTime
			},
			describe: func(existing models.ScheduleSlot) string {
				return fmt.Sprintf("classroom %s is occupied by group %s for '%s' at %s (ID: %s)",
					displayName(existing.ClassroomName), existing.GroupName, existing.SubjectName, existing.StartTime, existing.ID)
			},
		})
	}

	for _, axis := range axes {
		existing, err := axis.fetch(ctx)
		if err != nil {
			return models.ConflictReport{}, err
		}
		for _, slot := range existing {
			if !Overlaps(draft.StartTime, draft.DurationMinutes, slot.StartTime, slot.DurationMinutes) {
				continue
			}
			if axis.allowShared != nil && axis.allowShared(slot) {
				continue
			}
			s.logger.Debug("slot conflict detected",
				zap.String("axis", string(axis.kind)),
				zap.String("conflicting_slot_id", slot.ID))
			return models.ConflictReport{
				Valid:             false,
				ConflictType:      axis.kind,
				Message:           axis.describe(slot),
				ConflictingSlotID: slot.ID,
			}, nil
		}
	}

	return models.ConflictReport{Valid: true, ConflictType: models.ConflictNone}, nil
}

// SlotConflicts lists every axis conflict for one stored slot, without
// short-circuiting and without the shared-lesson exception. Used by the
// diagnostics surface.
func (s *ConflictService) SlotConflicts(ctx context.Context, slot models.ScheduleSlot) ([]models.SlotConflict, error) {
	var conflicts []models.SlotConflict

	groupSlots, err := s.repo.SlotsForGroupOnDay(ctx, slot.GroupID, slot.DayOfWeek, slot.ID)
	if err != nil {
		return nil, err
	}
	for _, other := range groupSlots {
		if Overlaps(slot.StartTime, slot.DurationMinutes, other.StartTime, other.DurationMinutes) {
			conflicts = append(conflicts, models.SlotConflict{
				Type:    models.ConflictGroup,
				Message: fmt.Sprintf("conflicts with another lesson (#%d)", other.LessonNumber),
				Slot:    other,
			})
		}
	}

	if slot.TeacherID != nil {
		teacherSlots, err := s.repo.SlotsForTeacherOnDay(ctx, *slot.TeacherID, slot.DayOfWeek, slot.ID)
		if err != nil {
			return nil, err
		}
		for _, other := range teacherSlots {
			if Overlaps(slot.StartTime, slot.DurationMinutes, other.StartTime, other.DurationMinutes) {
				conflicts = append(conflicts, models.SlotConflict{
					Type:    models.ConflictTeacher,
					Message: fmt.Sprintf("teacher is busy with group %s", other.GroupName),
					Slot:    other,
				})
			}
		}
	}

	if slot.ClassroomID != nil {
		classroomSlots, err := s.repo.SlotsForClassroomOnDay(ctx, *slot.ClassroomID, slot.DayOfWeek, slot.ID)
		if err != nil {
			return nil, err
		}
		for _, other := range classroomSlots {
			if Overlaps(slot.StartTime, slot.DurationMinutes, other.StartTime, other.DurationMinutes) {
				conflicts = append(conflicts, models.SlotConflict{
					Type:    models.ConflictClassroom,
					Message: fmt.Sprintf("classroom is occupied by group %s", other.GroupName),
					Slot:    other,
				})
			}
		}
	}

	return conflicts, nil
}

func checkDraft(draft models.SlotDraft) error {
	if draft.DurationMinutes <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "duration must be positive")
	}
	if !models.ValidDay(draft.DayOfWeek) {
		return appErrors.Clone(appErrors.ErrValidation, "day of week must be between 1 and 7")
	}
	if draft.GroupID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "group is required")
	}
	if draft.SubjectID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "subject is required")
	}
	if !draft.StartTime.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "start time must fall within the day")
	}
	return nil
}

func sameTeacher(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func displayName(name *string) string {
	if name == nil || *name == "" {
		return "(unknown)"
	}
	return *name
}
