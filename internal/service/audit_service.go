package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edutrack/timetable-api/internal/models"
)

type slotScanner interface {
	AllSlots(ctx context.Context) ([]models.ScheduleSlot, error)
}

// AuditService runs the batch timetable health check. It surfaces every
// pairwise teacher-time overlap, including legitimate shared lessons, so an
// administrator can review them by hand. It never runs on the write path.
type AuditService struct {
	repo   slotScanner
	logger *zap.Logger
}

// NewAuditService instantiates AuditService.
func NewAuditService(repo slotScanner, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

type teacherDayKey struct {
	teacherID string
	day       int
}

// FindAllConflicts partitions all slots by (teacher, day) and reports every
// overlapping pair within each partition exactly once, in stored order.
func (s *AuditService) FindAllConflicts(ctx context.Context) ([]models.SlotConflictPair, error) {
	slots, err := s.repo.AllSlots(ctx)
	if err != nil {
		return nil, err
	}

	byTeacherDay := make(map[teacherDayKey][]models.ScheduleSlot)
	var keys []teacherDayKey
	for _, slot := range slots {
		if slot.TeacherID == nil {
			continue
		}
		key := teacherDayKey{teacherID: *slot.TeacherID, day: slot.DayOfWeek}
		if _, seen := byTeacherDay[key]; !seen {
			keys = append(keys, key)
		}
		byTeacherDay[key] = append(byTeacherDay[key], slot)
	}

	var pairs []models.SlotConflictPair
	for _, key := range keys {
		partition := byTeacherDay[key]
		for i := 0; i < len(partition); i++ {
			for j := i + 1; j < len(partition); j++ {
				if Overlaps(partition[i].StartTime, partition[i].DurationMinutes,
					partition[j].StartTime, partition[j].DurationMinutes) {
					pairs = append(pairs, models.SlotConflictPair{First: partition[i], Second: partition[j]})
				}
			}
		}
	}

	if len(pairs) > 0 {
		s.logger.Warn("timetable audit found overlapping slots", zap.Int("pairs", len(pairs)))
	}
	return pairs, nil
}
