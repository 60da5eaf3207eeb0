package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edutrack/timetable-api/internal/models"
	appErrors "github.com/edutrack/timetable-api/pkg/errors"
)

const availabilityCachePattern = "timetable:avail:*"

type slotStore interface {
	slotReader
	List(ctx context.Context, filter models.SlotFilter) ([]models.ScheduleSlot, int, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	Create(ctx context.Context, slot *models.ScheduleSlot) error
	Update(ctx context.Context, slot *models.ScheduleSlot) error
	Delete(ctx context.Context, id string) error
}

// CreateSlotRequest describes payload for placing a lesson in the timetable.
// StartTime defaults to the bell schedule for the lesson number; duration
// defaults to the standard lesson length.
type CreateSlotRequest struct {
	GroupID         string     `json:"group_id" validate:"required"`
	SubjectID       string     `json:"subject_id" validate:"required"`
	TeacherID       string     `json:"teacher_id"`
	ClassroomID     string     `json:"classroom_id"`
	DayOfWeek       int        `json:"day_of_week" validate:"required,min=1,max=7"`
	LessonNumber    int        `json:"lesson_number" validate:"required,min=1"`
	StartTime       string     `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,min=1"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidTo         *time.Time `json:"valid_to"`
}

// UpdateSlotRequest updates an existing timetable slot.
type UpdateSlotRequest struct {
	GroupID         string     `json:"group_id" validate:"required"`
	SubjectID       string     `json:"subject_id" validate:"required"`
	TeacherID       string     `json:"teacher_id"`
	ClassroomID     string     `json:"classroom_id"`
	DayOfWeek       int        `json:"day_of_week" validate:"required,min=1,max=7"`
	LessonNumber    int        `json:"lesson_number" validate:"required,min=1"`
	StartTime       string     `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,min=1"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidTo         *time.Time `json:"valid_to"`
}

// ValidateSlotRequest asks for a conflict verdict without writing anything.
type ValidateSlotRequest struct {
	CreateSlotRequest
	ExcludeSlotID string `json:"exclude_slot_id"`
}

// TimetableService owns slot persistence around the conflict validator:
// every create or update is validated first and rejected with the conflict
// report on failure. Validation and write are two separate steps, so two
// concurrent conflicting writes can both pass; the schema's
// (group, day, lesson_number) uniqueness is the last-resort guard.
type TimetableService struct {
	repo      slotStore
	conflicts *ConflictService
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(repo slotStore, conflicts *ConflictService, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, conflicts: conflicts, cache: cache, validator: validate, logger: logger}
}

// List returns slots with pagination metadata.
func (s *TimetableService) List(ctx context.Context, filter models.SlotFilter) ([]models.ScheduleSlot, *models.Pagination, error) {
	slots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slots")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return slots, pagination, nil
}

// ListByGroup returns a group's full weekly timetable.
func (s *TimetableService) ListByGroup(ctx context.Context, groupID string) ([]models.ScheduleSlot, error) {
	slots, _, err := s.repo.List(ctx, models.SlotFilter{GroupID: groupID, PageSize: 100, SortBy: "day_of_week"})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group slots")
	}
	return slots, nil
}

// ListByTeacher returns a teacher's full weekly timetable.
func (s *TimetableService) ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleSlot, error) {
	slots, _, err := s.repo.List(ctx, models.SlotFilter{TeacherID: teacherID, PageSize: 100, SortBy: "day_of_week"})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher slots")
	}
	return slots, nil
}

// FindByID loads one slot.
func (s *TimetableService) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	return slot, nil
}

// Create inserts a new slot after conflict validation.
func (s *TimetableService) Create(ctx context.Context, req CreateSlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	draft, err := draftFromRequest(req, "")
	if err != nil {
		return nil, err
	}

	if err := s.ensureValid(ctx, draft); err != nil {
		return nil, err
	}

	slot := slotFromDraft(draft)
	slot.ValidFrom = req.ValidFrom
	slot.ValidTo = req.ValidTo
	if err := s.repo.Create(ctx, &slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slot")
	}

	s.invalidateAvailability(ctx)
	s.logger.Info("slot created",
		zap.String("slot_id", slot.ID),
		zap.String("group_id", slot.GroupID),
		zap.Int("day", slot.DayOfWeek))
	return &slot, nil
}

// Update modifies an existing slot, excluding it from its own conflict check.
func (s *TimetableService) Update(ctx context.Context, id string, req UpdateSlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	draft, err := draftFromRequest(CreateSlotRequest(req), existing.ID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureValid(ctx, draft); err != nil {
		return nil, err
	}

	updated := slotFromDraft(draft)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.ValidFrom = req.ValidFrom
	updated.ValidTo = req.ValidTo
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update slot")
	}

	s.invalidateAvailability(ctx)
	return &updated, nil
}

// Delete removes a slot.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete slot")
	}
	s.invalidateAvailability(ctx)
	return nil
}

// Validate returns the conflict verdict for a draft without persisting it.
func (s *TimetableService) Validate(ctx context.Context, req ValidateSlotRequest) (models.ConflictReport, error) {
	if err := s.validator.Struct(req.CreateSlotRequest); err != nil {
		return models.ConflictReport{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	draft, err := draftFromRequest(req.CreateSlotRequest, req.ExcludeSlotID)
	if err != nil {
		return models.ConflictReport{}, err
	}
	return s.conflicts.Validate(ctx, draft)
}

func (s *TimetableService) ensureValid(ctx context.Context, draft models.SlotDraft) error {
	report, err := s.conflicts.Validate(ctx, draft)
	if err != nil {
		return err
	}
	if !report.Valid {
		return appErrors.Wrap(&models.SlotConflictError{Report: report}, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, report.Message)
	}
	return nil
}

func (s *TimetableService) invalidateAvailability(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, availabilityCachePattern)
}

func draftFromRequest(req CreateSlotRequest, excludeID string) (models.SlotDraft, error) {
	start := models.ClockTime(0)
	if req.StartTime != "" {
		parsed, err := models.ParseClock(req.StartTime)
		if err != nil {
			return models.SlotDraft{}, appErrors.Clone(appErrors.ErrValidation, "start_time must be in HH:MM format")
		}
		start = parsed
	} else {
		bell, ok := models.DefaultLessonStarts[req.LessonNumber]
		if !ok {
			return models.SlotDraft{}, appErrors.Clone(appErrors.ErrValidation, "no bell schedule entry for this lesson number, start_time is required")
		}
		start = bell
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = models.DefaultLessonDuration
	}

	return models.SlotDraft{
		GroupID:         req.GroupID,
		SubjectID:       req.SubjectID,
		TeacherID:       optionalID(req.TeacherID),
		ClassroomID:     optionalID(req.ClassroomID),
		DayOfWeek:       req.DayOfWeek,
		LessonNumber:    req.LessonNumber,
		StartTime:       start,
		DurationMinutes: duration,
		ExcludeSlotID:   excludeID,
	}, nil
}

func slotFromDraft(draft models.SlotDraft) models.ScheduleSlot {
	return models.ScheduleSlot{
		GroupID:         draft.GroupID,
		SubjectID:       draft.SubjectID,
		TeacherID:       draft.TeacherID,
		ClassroomID:     draft.ClassroomID,
		DayOfWeek:       draft.DayOfWeek,
		LessonNumber:    draft.LessonNumber,
		StartTime:       draft.StartTime,
		DurationMinutes: draft.DurationMinutes,
	}
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
