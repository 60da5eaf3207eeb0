package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edutrack/timetable-api/internal/models"
	appErrors "github.com/edutrack/timetable-api/pkg/errors"
)

type mockDayReader struct {
	slots []models.ScheduleSlot
}

func (m *mockDayReader) SlotsOnDay(ctx context.Context, day int) ([]models.ScheduleSlot, error) {
	var result []models.ScheduleSlot
	for _, slot := range m.slots {
		if slot.DayOfWeek == day {
			result = append(result, slot)
		}
	}
	return result, nil
}

type mockTeacherDir struct {
	teachers      []models.Teacher
	bySubject     map[string][]string
	gotSubjectIDs []string
}

func (m *mockTeacherDir) AllTeachers(ctx context.Context, subjectID string) ([]models.Teacher, error) {
	m.gotSubjectIDs = append(m.gotSubjectIDs, subjectID)
	if subjectID == "" {
		return m.teachers, nil
	}
	allowed := make(map[string]bool)
	for _, id := range m.bySubject[subjectID] {
		allowed[id] = true
	}
	var result []models.Teacher
	for _, teacher := range m.teachers {
		if allowed[teacher.ID] {
			result = append(result, teacher)
		}
	}
	return result, nil
}

type mockClassroomDir struct {
	classrooms []models.Classroom
}

func (m *mockClassroomDir) AllClassrooms(ctx context.Context, minCapacity int) ([]models.Classroom, error) {
	var result []models.Classroom
	for _, room := range m.classrooms {
		if room.Capacity >= minCapacity {
			result = append(result, room)
		}
	}
	return result, nil
}

func TestAvailableTeachers(t *testing.T) {
	slots := &mockDayReader{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
		{ID: "s2", GroupID: "g2", SubjectID: "math", TeacherID: strPtr("t2"), DayOfWeek: 2, StartTime: clock(8, 30), DurationMinutes: 80},
	}}
	teachers := &mockTeacherDir{teachers: []models.Teacher{
		{ID: "t1", FullName: "Ivanov"},
		{ID: "t2", FullName: "Petrova"},
		{ID: "t3", FullName: "Sydorenko"},
	}}
	svc := NewAvailabilityService(slots, teachers, &mockClassroomDir{}, nil, zap.NewNop())

	// t1 overlaps on Monday, t2 is busy on Tuesday only, t3 has no slots.
	available, err := svc.AvailableTeachers(context.Background(), 1, clock(9, 0), 60, "")
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "t2", available[0].ID)
	assert.Equal(t, "t3", available[1].ID)
}

func TestAvailableTeachersSharedLessonStillBusy(t *testing.T) {
	// The conflict validator would allow joining a shared lesson, but
	// availability reports the teacher as busy regardless.
	slots := &mockDayReader{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}
	teachers := &mockTeacherDir{teachers: []models.Teacher{{ID: "t1", FullName: "Ivanov"}}}
	svc := NewAvailabilityService(slots, teachers, &mockClassroomDir{}, nil, zap.NewNop())

	available, err := svc.AvailableTeachers(context.Background(), 1, clock(8, 30), 80, "math")
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestAvailableTeachersSubjectFilter(t *testing.T) {
	teachers := &mockTeacherDir{
		teachers:  []models.Teacher{{ID: "t1"}, {ID: "t2"}},
		bySubject: map[string][]string{"math": {"t2"}},
	}
	svc := NewAvailabilityService(&mockDayReader{}, teachers, &mockClassroomDir{}, nil, zap.NewNop())

	available, err := svc.AvailableTeachers(context.Background(), 3, clock(10, 15), 80, "math")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "t2", available[0].ID)
	assert.Equal(t, []string{"math"}, teachers.gotSubjectIDs)
}

func TestAvailableTeachersBackToBack(t *testing.T) {
	slots := &mockDayReader{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}
	teachers := &mockTeacherDir{teachers: []models.Teacher{{ID: "t1"}}}
	svc := NewAvailabilityService(slots, teachers, &mockClassroomDir{}, nil, zap.NewNop())

	// 08:30+80min ends at 09:50; a lesson starting exactly then is fine.
	available, err := svc.AvailableTeachers(context.Background(), 1, clock(9, 50), 80, "")
	require.NoError(t, err)
	require.Len(t, available, 1)
}

func TestAvailableClassrooms(t *testing.T) {
	slots := &mockDayReader{slots: []models.ScheduleSlot{
		{ID: "s1", GroupID: "g1", SubjectID: "math", ClassroomID: strPtr("r101"), DayOfWeek: 1, StartTime: clock(8, 30), DurationMinutes: 80},
	}}
	classrooms := &mockClassroomDir{classrooms: []models.Classroom{
		{ID: "r101", Name: "101", Capacity: 30},
		{ID: "r102", Name: "102", Capacity: 15},
		{ID: "r201", Name: "201", Capacity: 60},
	}}
	svc := NewAvailabilityService(slots, &mockTeacherDir{}, classrooms, nil, zap.NewNop())

	available, err := svc.AvailableClassrooms(context.Background(), 1, clock(9, 0), 60, 20)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "r201", available[0].ID)
}

func TestAvailabilityRejectsBadWindow(t *testing.T) {
	svc := NewAvailabilityService(&mockDayReader{}, &mockTeacherDir{}, &mockClassroomDir{}, nil, zap.NewNop())

	cases := []struct {
		day      int
		start    models.ClockTime
		duration int
	}{
		{0, clock(8, 30), 80},
		{8, clock(8, 30), 80},
		{1, clock(8, 30), 0},
		{1, clock(8, 30), -10},
		{1, models.ClockTime(-5), 80},
	}
	for _, tc := range cases {
		_, err := svc.AvailableTeachers(context.Background(), tc.day, tc.start, tc.duration, "")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

		_, err = svc.AvailableClassrooms(context.Background(), tc.day, tc.start, tc.duration, 0)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}
