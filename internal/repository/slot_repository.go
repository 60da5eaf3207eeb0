package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edutrack/timetable-api/internal/models"
)

const slotColumns = `s.id, s.group_id, s.subject_id, s.teacher_id, s.classroom_id, s.day_of_week, s.lesson_number, s.start_time, s.duration_minutes, s.valid_from, s.valid_to, g.name AS group_name, subj.name AS subject_name, t.full_name AS teacher_name, c.name AS classroom_name, s.created_at, s.updated_at`

const slotJoins = ` FROM schedule_slots s
JOIN study_groups g ON g.id = s.group_id
JOIN subjects subj ON subj.id = s.subject_id
LEFT JOIN teachers t ON t.id = s.teacher_id
LEFT JOIN classrooms c ON c.id = s.classroom_id`

// SlotRepository provides persistence and day-scoped reads for schedule slots.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new slot repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// SlotsForGroupOnDay returns a group's slots on a day, optionally excluding one id.
func (r *SlotRepository) SlotsForGroupOnDay(ctx context.Context, groupID string, day int, excludeID string) ([]models.ScheduleSlot, error) {
	return r.slotsForResourceOnDay(ctx, "s.group_id", groupID, day, excludeID)
}

// SlotsForTeacherOnDay returns a teacher's slots on a day across all groups.
func (r *SlotRepository) SlotsForTeacherOnDay(ctx context.Context, teacherID string, day int, excludeID string) ([]models.ScheduleSlot, error) {
	return r.slotsForResourceOnDay(ctx, "s.teacher_id", teacherID, day, excludeID)
}

// SlotsForClassroomOnDay returns a classroom's slots on a day.
func (r *SlotRepository) SlotsForClassroomOnDay(ctx context.Context, classroomID string, day int, excludeID string) ([]models.ScheduleSlot, error) {
	return r.slotsForResourceOnDay(ctx, "s.classroom_id", classroomID, day, excludeID)
}

func (r *SlotRepository) slotsForResourceOnDay(ctx context.Context, column, id string, day int, excludeID string) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s%s WHERE %s = $1 AND s.day_of_week = $2", slotColumns, slotJoins, column)
	args := []interface{}{id, day}
	if excludeID != "" {
		query += " AND s.id <> $3"
		args = append(args, excludeID)
	}
	query += " ORDER BY s.start_time ASC"

	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("slots for %s on day: %w", column, err)
	}
	return slots, nil
}

// SlotsOnDay returns every slot scheduled on the given day.
func (r *SlotRepository) SlotsOnDay(ctx context.Context, day int) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s%s WHERE s.day_of_week = $1 ORDER BY s.start_time ASC", slotColumns, slotJoins)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, day); err != nil {
		return nil, fmt.Errorf("slots on day: %w", err)
	}
	return slots, nil
}

// AllSlots returns the full timetable ordered by day and start time.
func (r *SlotRepository) AllSlots(ctx context.Context) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s%s ORDER BY s.day_of_week ASC, s.start_time ASC", slotColumns, slotJoins)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("all slots: %w", err)
	}
	return slots, nil
}

// FindByID loads a slot by id.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s%s WHERE s.id = $1", slotColumns, slotJoins)
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// List returns slots with optional filtering and pagination.
func (r *SlotRepository) List(ctx context.Context, filter models.SlotFilter) ([]models.ScheduleSlot, int, error) {
	base := slotJoins + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("s.group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("s.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("s.classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("s.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.DayOfWeek != 0 {
		conditions = append(conditions, fmt.Sprintf("s.day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"day_of_week":   "s.day_of_week",
		"start_time":    "s.start_time",
		"lesson_number": "s.lesson_number",
		"created_at":    "s.created_at",
	}
	sortColumn, ok := allowedSorts[sortBy]
	if !ok {
		sortColumn = "s.day_of_week"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s%s ORDER BY %s %s, s.start_time ASC LIMIT %d OFFSET %d", slotColumns, base, sortColumn, order, size, offset)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}

	countQuery := "SELECT COUNT(*)" + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}

	return slots, total, nil
}

// Create stores a new slot record.
func (r *SlotRepository) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO schedule_slots (id, group_id, subject_id, teacher_id, classroom_id, day_of_week, lesson_number, start_time, duration_minutes, valid_from, valid_to, created_at, updated_at) VALUES (:id, :group_id, :subject_id, :teacher_id, :classroom_id, :day_of_week, :lesson_number, :start_time, :duration_minutes, :valid_from, :valid_to, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

// Update modifies a slot record.
func (r *SlotRepository) Update(ctx context.Context, slot *models.ScheduleSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_slots SET group_id = :group_id, subject_id = :subject_id, teacher_id = :teacher_id, classroom_id = :classroom_id, day_of_week = :day_of_week, lesson_number = :lesson_number, start_time = :start_time, duration_minutes = :duration_minutes, valid_from = :valid_from, valid_to = :valid_to, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	return nil
}

// Delete removes a slot by id.
func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
