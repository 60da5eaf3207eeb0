package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edutrack/timetable-api/internal/models"
	appErrors "github.com/edutrack/timetable-api/pkg/errors"
)

type mockSlotStore struct {
	mockSlotReader
	deleted []string
	updated []models.ScheduleSlot
}

func (m *mockSlotStore) List(ctx context.Context, filter models.SlotFilter) ([]models.ScheduleSlot, int, error) {
	var result []models.ScheduleSlot
	for _, slot := range m.slots {
		if filter.GroupID != "" && slot.GroupID != filter.GroupID {
			continue
		}
		if filter.TeacherID != "" && (slot.TeacherID == nil || *slot.TeacherID != filter.TeacherID) {
			continue
		}
		result = append(result, slot)
	}
	return result, len(result), nil
}

func (m *mockSlotStore) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	for i := range m.slots {
		if m.slots[i].ID == id {
			slot := m.slots[i]
			return &slot, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSlotStore) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	slot.ID = fmt.Sprintf("slot-%d", len(m.slots)+1)
	m.slots = append(m.slots, *slot)
	return nil
}

func (m *mockSlotStore) Update(ctx context.Context, slot *models.ScheduleSlot) error {
	for i := range m.slots {
		if m.slots[i].ID == slot.ID {
			m.slots[i] = *slot
		}
	}
	m.updated = append(m.updated, *slot)
	return nil
}

func (m *mockSlotStore) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func newTimetableService(store *mockSlotStore) *TimetableService {
	logger := zap.NewNop()
	conflicts := NewConflictService(&store.mockSlotReader, logger)
	return NewTimetableService(store, conflicts, nil, validator.New(), logger)
}

func TestCreateSlotDefaultsFromBellSchedule(t *testing.T) {
	store := &mockSlotStore{}
	svc := newTimetableService(store)

	slot, err := svc.Create(context.Background(), CreateSlotRequest{
		GroupID:      "g1",
		SubjectID:    "math",
		TeacherID:    "t1",
		DayOfWeek:    1,
		LessonNumber: 2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, slot.ID)
	assert.Equal(t, clock(10, 15), slot.StartTime)
	assert.Equal(t, models.DefaultLessonDuration, slot.DurationMinutes)
	require.NotNil(t, slot.TeacherID)
	assert.Equal(t, "t1", *slot.TeacherID)
	require.Len(t, store.slots, 1)
}

func TestCreateSlotRejectsConflict(t *testing.T) {
	store := &mockSlotStore{mockSlotReader: mockSlotReader{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", DayOfWeek: 1, LessonNumber: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}}
	svc := newTimetableService(store)

	_, err := svc.Create(context.Background(), CreateSlotRequest{
		GroupID:      "g1",
		SubjectID:    "physics",
		DayOfWeek:    1,
		LessonNumber: 1,
		StartTime:    "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	var conflictErr *models.SlotConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, models.ConflictGroup, conflictErr.Report.ConflictType)
	assert.Equal(t, "s1", conflictErr.Report.ConflictingSlotID)

	// Nothing was persisted.
	assert.Len(t, store.slots, 1)
}

func TestCreateSlotRejectsBadPayload(t *testing.T) {
	svc := newTimetableService(&mockSlotStore{})

	cases := []CreateSlotRequest{
		{SubjectID: "math", DayOfWeek: 1, LessonNumber: 1},
		{GroupID: "g1", DayOfWeek: 1, LessonNumber: 1},
		{GroupID: "g1", SubjectID: "math", DayOfWeek: 9, LessonNumber: 1},
		{GroupID: "g1", SubjectID: "math", DayOfWeek: 1, LessonNumber: 1, StartTime: "25:99"},
		{GroupID: "g1", SubjectID: "math", DayOfWeek: 1, LessonNumber: 99},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err, "%+v", req)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestUpdateSlotExcludesItself(t *testing.T) {
	store := &mockSlotStore{mockSlotReader: mockSlotReader{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", DayOfWeek: 1, LessonNumber: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}}
	svc := newTimetableService(store)

	// Re-saving the slot at its own time must not conflict with itself.
	updated, err := svc.Update(context.Background(), "s1", UpdateSlotRequest{
		GroupID:      "g1",
		SubjectID:    "math",
		DayOfWeek:    1,
		LessonNumber: 1,
		StartTime:    "08:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", updated.ID)
	require.Len(t, store.updated, 1)
}

func TestUpdateSlotNotFound(t *testing.T) {
	svc := newTimetableService(&mockSlotStore{})

	_, err := svc.Update(context.Background(), "missing", UpdateSlotRequest{
		GroupID: "g1", SubjectID: "math", DayOfWeek: 1, LessonNumber: 1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteSlot(t *testing.T) {
	store := &mockSlotStore{mockSlotReader: mockSlotReader{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}}
	svc := newTimetableService(store)

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, store.deleted)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestValidateSlotDryRun(t *testing.T) {
	store := &mockSlotStore{mockSlotReader: mockSlotReader{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", DayOfWeek: 1, LessonNumber: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}}
	svc := newTimetableService(store)

	report, err := svc.Validate(context.Background(), ValidateSlotRequest{
		CreateSlotRequest: CreateSlotRequest{
			GroupID: "g1", SubjectID: "physics", DayOfWeek: 1, LessonNumber: 2, StartTime: "09:00",
		},
	})
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.Equal(t, models.ConflictGroup, report.ConflictType)

	// The verdict is data, not an error, and nothing is written.
	assert.Len(t, store.slots, 1)
}

func TestListByGroup(t *testing.T) {
	store := &mockSlotStore{mockSlotReader: mockSlotReader{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
		{ID: "s2", GroupID: "g2", SubjectID: "math", DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}}
	svc := newTimetableService(store)

	slots, err := svc.ListByGroup(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "s1", slots[0].ID)
}
