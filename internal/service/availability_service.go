package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edutrack/timetable-api/internal/models"
	appErrors "github.com/edutrack/timetable-api/pkg/errors"
)

type daySlotReader interface {
	SlotsOnDay(ctx context.Context, day int) ([]models.ScheduleSlot, error)
}

type teacherDirectory interface {
	AllTeachers(ctx context.Context, subjectID string) ([]models.Teacher, error)
}

type classroomDirectory interface {
	AllClassrooms(ctx context.Context, minCapacity int) ([]models.Classroom, error)
}

// AvailabilityService answers which teachers or classrooms are free for a
// given day and time range. It is deliberately stricter than the conflict
// validator: a teacher already giving a shared lesson at that time is still
// reported as unavailable, because availability answers "can something new
// start here", not "is this continuation legal".
type AvailabilityService struct {
	slots      daySlotReader
	teachers   teacherDirectory
	classrooms classroomDirectory
	cache      *CacheService
	logger     *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(slots daySlotReader, teachers teacherDirectory, classrooms classroomDirectory, cache *CacheService, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{slots: slots, teachers: teachers, classrooms: classrooms, cache: cache, logger: logger}
}

// AvailableTeachers returns teachers with no slot overlapping the requested
// range on the given day. When subjectID is set, only teachers with a
// standing assignment for that subject are considered.
func (s *AvailabilityService) AvailableTeachers(ctx context.Context, day int, start models.ClockTime, duration int, subjectID string) ([]models.Teacher, error) {
	if err := checkWindow(day, start, duration); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("timetable:avail:teachers:%d:%d:%d:%s", day, start, duration, subjectID)
	var cached []models.Teacher
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	teachers, err := s.teachers.AllTeachers(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}

	daySlots, err := s.slots.SlotsOnDay(ctx, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day slots")
	}

	busy := make(map[string]bool)
	for _, slot := range daySlots {
		if slot.TeacherID == nil || busy[*slot.TeacherID] {
			continue
		}
		if Overlaps(start, duration, slot.StartTime, slot.DurationMinutes) {
			busy[*slot.TeacherID] = true
		}
	}

	available := make([]models.Teacher, 0, len(teachers))
	for _, teacher := range teachers {
		if !busy[teacher.ID] {
			available = append(available, teacher)
		}
	}

	_ = s.cache.Set(ctx, cacheKey, available, 0)
	return available, nil
}

// AvailableClassrooms returns classrooms free for the requested range, after
// applying the optional capacity floor.
func (s *AvailabilityService) AvailableClassrooms(ctx context.Context, day int, start models.ClockTime, duration int, minCapacity int) ([]models.Classroom, error) {
	if err := checkWindow(day, start, duration); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("timetable:avail:classrooms:%d:%d:%d:%d", day, start, duration, minCapacity)
	var cached []models.Classroom
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	classrooms, err := s.classrooms.AllClassrooms(ctx, minCapacity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}

	daySlots, err := s.slots.SlotsOnDay(ctx, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day slots")
	}

	busy := make(map[string]bool)
	for _, slot := range daySlots {
		if slot.ClassroomID == nil || busy[*slot.ClassroomID] {
			continue
		}
		if Overlaps(start, duration, slot.StartTime, slot.DurationMinutes) {
			busy[*slot.ClassroomID] = true
		}
	}

	available := make([]models.Classroom, 0, len(classrooms))
	for _, classroom := range classrooms {
		if !busy[classroom.ID] {
			available = append(available, classroom)
		}
	}

	_ = s.cache.Set(ctx, cacheKey, available, 0)
	return available, nil
}

func checkWindow(day int, start models.ClockTime, duration int) error {
	if !models.ValidDay(day) {
		return appErrors.Clone(appErrors.ErrValidation, "day of week must be between 1 and 7")
	}
	if duration <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "duration must be positive")
	}
	if !start.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "start time must fall within the day")
	}
	return nil
}
