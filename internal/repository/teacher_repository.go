package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/timetable-api/internal/models"
)

// TeacherRepository reads the teacher roster for availability queries.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new teacher repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// AllTeachers returns active teachers ordered by name. When subjectID is
// given, only teachers with a standing assignment for that subject are
// returned.
func (r *TeacherRepository) AllTeachers(ctx context.Context, subjectID string) ([]models.Teacher, error) {
	query := `SELECT t.id, t.full_name, t.email FROM teachers t WHERE t.active = TRUE`
	var args []interface{}
	if subjectID != "" {
		query += ` AND EXISTS (SELECT 1 FROM teaching_assignments ta WHERE ta.teacher_id = t.id AND ta.subject_id = $1)`
		args = append(args, subjectID)
	}
	query += ` ORDER BY t.full_name ASC`

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}
