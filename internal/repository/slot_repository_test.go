package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/timetable-api/internal/models"
)

func newSlotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var slotRows = []string{
	"id", "group_id", "subject_id", "teacher_id", "classroom_id",
	"day_of_week", "lesson_number", "start_time", "duration_minutes",
	"valid_from", "valid_to", "group_name", "subject_name", "teacher_name",
	"classroom_name", "created_at", "updated_at",
}

func TestSlotRepositorySlotsForTeacherOnDay(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	rows := sqlmock.NewRows(slotRows).
		AddRow("slot-1", "group-1", "subj-1", "teacher-1", nil,
			1, 1, int64(510), 80,
			nil, nil, "KN-41", "Mathematics", "Ivanov",
			nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.group_id, s.subject_id")).
		WithArgs("teacher-1", 1).
		WillReturnRows(rows)

	slots, err := repo.SlotsForTeacherOnDay(context.Background(), "teacher-1", 1, "")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.Equal(t, "slot-1", slots[0].ID)
	require.Equal(t, models.ClockTime(510), slots[0].StartTime)
	require.Equal(t, "KN-41", slots[0].GroupName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositorySlotsForGroupOnDayExcluding(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.group_id, s.subject_id")).
		WithArgs("group-1", 2, "slot-9").
		WillReturnRows(sqlmock.NewRows(slotRows))

	slots, err := repo.SlotsForGroupOnDay(context.Background(), "group-1", 2, "slot-9")
	require.NoError(t, err)
	require.Empty(t, slots)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.group_id, s.subject_id")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_slots")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	teacherID := "teacher-1"
	slot := &models.ScheduleSlot{
		GroupID:         "group-1",
		SubjectID:       "subj-1",
		TeacherID:       &teacherID,
		DayOfWeek:       1,
		LessonNumber:    1,
		StartTime:       510,
		DurationMinutes: 80,
	}
	require.NoError(t, repo.Create(context.Background(), slot))
	require.NotEmpty(t, slot.ID)
	require.False(t, slot.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryList(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	rows := sqlmock.NewRows(slotRows).
		AddRow("slot-1", "group-1", "subj-1", nil, nil,
			1, 1, int64(510), 80,
			nil, nil, "KN-41", "Mathematics", nil,
			nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.group_id, s.subject_id")).
		WithArgs("group-1", 1).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("group-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	slots, total, err := repo.List(context.Background(), models.SlotFilter{GroupID: "group-1", DayOfWeek: 1})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_slots")).
		WithArgs("slot-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "slot-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
