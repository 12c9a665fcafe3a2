package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) CreateLesson(ctx context.Context, lesson attendance.Lesson) (attendance.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	lesson.ID = uuid.New().String()
	repo.db.lessons[lesson.ID] = &lesson
	return lesson, nil
}

func (repo *attendanceRepository) GetLessonByID(ctx context.Context, id string) (attendance.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lsn, ok := repo.db.lessons[id]; ok {
		return *lsn, nil
	}
	return attendance.Lesson{}, attendance.ErrLessonNotFound
}

func (repo *attendanceRepository) QueryLessons(ctx context.Context, filter attendance.LessonFilter) ([]attendance.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var lessons []attendance.Lesson
	for _, lsn := range repo.db.lessons {
		if filter.ClassID != "" && lsn.ClassID != filter.ClassID {
			continue
		}
		if !filter.DateFrom.IsZero() && lsn.Date.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && lsn.Date.After(filter.DateTo) {
			continue
		}
		lessons = append(lessons, *lsn)
	}
	// SchoolID filtering needs the class table; the in-memory store keeps
	// lessons only, so callers filter per class instead.
	dateAsc := true
	for _, ord := range filter.Orderings {
		if ord.Field == "date" {
			dateAsc = ord.Ascending
			break
		}
	}
	sort.Slice(lessons, func(i, j int) bool {
		if !lessons[i].Date.Equal(lessons[j].Date) {
			if dateAsc {
				return lessons[i].Date.Before(lessons[j].Date)
			}
			return lessons[i].Date.After(lessons[j].Date)
		}
		return lessons[i].ID < lessons[j].ID
	})
	return lessons, nil
}

func (repo *attendanceRepository) CreateRecords(ctx context.Context, records []attendance.Record) ([]attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	now := time.Now().UTC()
	out := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		rec.ID = uuid.New().String()
		rec.CreatedAt = now
		out = append(out, rec)
	}
	// insert only after the whole batch is prepared so a panic above cannot
	// leave a partial lesson behind
	for i := range out {
		rec := out[i]
		repo.db.records[rec.ID] = &rec
	}
	return out, nil
}

func (repo *attendanceRepository) HasRecordsForLesson(ctx context.Context, lessonID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rec := range repo.db.records {
		if rec.LessonID == lessonID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[string]struct{}, len(filter.LessonIDs))
	for _, id := range filter.LessonIDs {
		wanted[id] = struct{}{}
	}

	var records []attendance.Record
	for _, rec := range repo.db.records {
		if len(wanted) > 0 {
			if _, ok := wanted[rec.LessonID]; !ok {
				continue
			}
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].LessonID != records[j].LessonID {
			return records[i].LessonID < records[j].LessonID
		}
		return records[i].StudentID < records[j].StudentID
	})
	return records, nil
}
