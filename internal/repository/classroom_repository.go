package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/timetable-api/internal/models"
)

// ClassroomRepository reads the classroom inventory for availability queries.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository creates a new classroom repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// AllClassrooms returns classrooms ordered by name, optionally restricted
// to those seating at least minCapacity.
func (r *ClassroomRepository) AllClassrooms(ctx context.Context, minCapacity int) ([]models.Classroom, error) {
	query := `SELECT id, name, capacity FROM classrooms`
	var args []interface{}
	if minCapacity > 0 {
		query += ` WHERE capacity >= $1`
		args = append(args, minCapacity)
	}
	query += ` ORDER BY name ASC`

	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query, args...); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}
