package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edutrack/timetable-api/internal/models"
)

type mockSlotScanner struct {
	slots []models.ScheduleSlot
	err   error
}

func (m *mockSlotScanner) AllSlots(ctx context.Context) ([]models.ScheduleSlot, error) {
	return m.slots, m.err
}

func TestFindAllConflicts(t *testing.T) {
	repo := &mockSlotScanner{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 90},
		{ID: "s2", GroupID: "g2", SubjectID: "math", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(9, 0), DurationMinutes: 90},
		{ID: "s3", GroupID: "g3", SubjectID: "math", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(11, 0), DurationMinutes: 90},
	}}
	svc := NewAuditService(repo, zap.NewNop())

	pairs, err := svc.FindAllConflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "s1", pairs[0].First.ID)
	assert.Equal(t, "s2", pairs[0].Second.ID)
}

func TestFindAllConflictsPartitionsByDay(t *testing.T) {
	// Same teacher, same times, different days: no conflict.
	repo := &mockSlotScanner{slots: []models.ScheduleSlot{
		{ID: "s1", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
		{ID: "s2", TeacherID: strPtr("t1"), DayOfWeek: 2, StartTime: clock(8, 30), DurationMinutes: 80},
	}}
	svc := NewAuditService(repo, zap.NewNop())

	pairs, err := svc.FindAllConflicts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestFindAllConflictsPartitionsByTeacher(t *testing.T) {
	repo := &mockSlotScanner{slots: []models.ScheduleSlot{
		{ID: "s1", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
		{ID: "s2", TeacherID: strPtr("t2"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}
	svc := NewAuditService(repo, zap.NewNop())

	pairs, err := svc.FindAllConflicts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestFindAllConflictsReportsSharedLessons(t *testing.T) {
	// The audit deliberately has no shared-lesson exception: identical
	// subject and start time is still an overlap worth reviewing.
	repo := &mockSlotScanner{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
		{ID: "s2", GroupID: "g2", SubjectID: "math", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}
	svc := NewAuditService(repo, zap.NewNop())

	pairs, err := svc.FindAllConflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 1)
}

func TestFindAllConflictsSkipsUnassignedSlots(t *testing.T) {
	repo := &mockSlotScanner{slots: []models.ScheduleSlot{
		{ID: "s1", DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
		{ID: "s2", DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}
	svc := NewAuditService(repo, zap.NewNop())

	pairs, err := svc.FindAllConflicts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestFindAllConflictsPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("relation does not exist")
	svc := NewAuditService(&mockSlotScanner{err: storeErr}, zap.NewNop())

	_, err := svc.FindAllConflicts(context.Background())
	require.ErrorIs(t, err, storeErr)
}
