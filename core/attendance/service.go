package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
	"github.com/codelasak/fa-akademi-tool-sub000/core/school"
)

var (
	// errors
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrRecordNotFound  = errors.New("attendance record not found")
	ErrLessonSubmitted = errors.New("attendance already submitted for this lesson")
	ErrEmptySubmission = errors.New("submission contains no entries")
)

type (
	Repository interface {
		CreateLesson(ctx context.Context, lesson Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		QueryLessons(ctx context.Context, filter LessonFilter) ([]Lesson, error)

		// CreateRecords commits all records of one lesson atomically: either
		// the full batch is written or none of it.
		CreateRecords(ctx context.Context, records []Record) ([]Record, error)
		HasRecordsForLesson(ctx context.Context, lessonID string) (bool, error)
		QueryRecords(ctx context.Context, filter RecordFilter) ([]Record, error)
	}

	// RosterStore is the slice of the school store the submission path needs.
	RosterStore interface {
		GetClassByID(ctx context.Context, id string) (school.Class, error)
		ListActiveStudentIDs(ctx context.Context, classID string) (map[string]struct{}, error)
	}

	// PolicyResolver yields the effective policy for a class at a point in time.
	PolicyResolver interface {
		Resolve(ctx context.Context, classID, schoolID string, at time.Time) (policy.Policy, error)
	}

	LessonFilter struct {
		ClassID  string    `query:"class_id"`
		SchoolID string    `query:"school_id"`
		DateFrom time.Time `query:"date_from"`
		DateTo   time.Time `query:"date_to"`

		// Orderings is honored for whitelisted fields only; repositories fall
		// back to (date, id) ordering.
		Orderings []core.DBOrdering `query:"-"`
	}

	RecordFilter struct {
		LessonIDs []string
		StudentID string
	}

	// Submission is one lesson's worth of raw attendance entries, keyed by
	// student ID.
	Submission map[string]Observation

	Service struct {
		repo       Repository
		roster     RosterStore
		resolver   PolicyResolver
		classifier *Classifier
		logger     core.Logger
	}
)

func NewService(repo Repository, roster RosterStore, resolver PolicyResolver, logger core.Logger) *Service {
	return &Service{
		repo:       repo,
		roster:     roster,
		resolver:   resolver,
		classifier: NewClassifier(),
		logger:     logger,
	}
}

func (svc *Service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	if _, err := svc.roster.GetClassByID(ctx, nl.ClassID); err != nil {
		return Lesson{}, err
	}
	return svc.repo.CreateLesson(ctx, Lesson{
		ClassID:     nl.ClassID,
		TeacherID:   nl.TeacherID,
		Date:        nl.Date.UTC(),
		HoursWorked: nl.HoursWorked,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) GetLesson(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *Service) QueryLessons(ctx context.Context, filter LessonFilter) ([]Lesson, error) {
	return svc.repo.QueryLessons(ctx, filter)
}

// SubmitLesson classifies one lesson's submission and persists the resulting
// records as a single atomic batch.
//
// Entries for students not on the class roster are dropped, not rejected: the
// drop is logged as a warning and the rest of the batch proceeds. Malformed
// entries, by contrast, fail the whole batch before any record is produced.
func (svc *Service) SubmitLesson(ctx context.Context, lessonID string, sub Submission) ([]Record, error) {
	if len(sub) == 0 {
		return nil, core.NewValidationError(ErrEmptySubmission)
	}

	lesson, err := svc.repo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	// a (lesson, student) pair has at most one record; re-submission of a
	// lesson is rejected rather than merged
	submitted, err := svc.repo.HasRecordsForLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if submitted {
		return nil, core.NewValidationError(ErrLessonSubmitted)
	}

	// validate the whole batch up front
	for studentID, obs := range sub {
		obs.StudentID = studentID
		if err := obs.Validate(); err != nil {
			return nil, err
		}
	}

	cls, err := svc.roster.GetClassByID(ctx, lesson.ClassID)
	if err != nil {
		return nil, err
	}
	roster, err := svc.roster.ListActiveStudentIDs(ctx, lesson.ClassID)
	if err != nil {
		return nil, err
	}

	pol, err := svc.resolver.Resolve(ctx, cls.ID, cls.SchoolID, lesson.Date)
	if err != nil {
		return nil, err
	}

	// deterministic classification order
	studentIDs := make([]string, 0, len(sub))
	for id := range sub {
		studentIDs = append(studentIDs, id)
	}
	sort.Strings(studentIDs)

	records := make([]Record, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		if _, onRoster := roster[studentID]; !onRoster {
			svc.logger.Warn(fmt.Sprintf(
				"attendance: dropping entry for student %s not on roster of class %s", studentID, cls.ID))
			continue
		}
		obs := sub[studentID]
		obs.StudentID = studentID
		obs.LessonID = lessonID
		records = append(records, svc.classifier.Classify(obs, pol))
	}

	return svc.repo.CreateRecords(ctx, records)
}

// BuildRollup aggregates every classified record in the filter window.
// Concern thresholds use the policy in force now, re-resolved per class.
func (svc *Service) BuildRollup(ctx context.Context, filter LessonFilter) (Rollup, error) {
	lessons, err := svc.repo.QueryLessons(ctx, filter)
	if err != nil {
		return Rollup{}, err
	}
	if len(lessons) == 0 {
		return Aggregate(RollupInput{}), nil
	}

	lessonIdx := make(map[string]Lesson, len(lessons))
	lessonIDs := make([]string, 0, len(lessons))
	classIDs := make(map[string]struct{})
	for _, l := range lessons {
		lessonIdx[l.ID] = l
		lessonIDs = append(lessonIDs, l.ID)
		classIDs[l.ClassID] = struct{}{}
	}

	records, err := svc.repo.QueryRecords(ctx, RecordFilter{LessonIDs: lessonIDs})
	if err != nil {
		return Rollup{}, err
	}

	now := time.Now().UTC()
	classes := make(map[string]school.Class, len(classIDs))
	policies := make(map[string]policy.Policy, len(classIDs))
	for classID := range classIDs {
		cls, err := svc.roster.GetClassByID(ctx, classID)
		if err != nil {
			return Rollup{}, err
		}
		classes[classID] = cls
		pol, err := svc.resolver.Resolve(ctx, cls.ID, cls.SchoolID, now)
		if err != nil {
			return Rollup{}, err
		}
		policies[classID] = pol
	}

	return Aggregate(RollupInput{
		Records:  records,
		Lessons:  lessonIdx,
		Classes:  classes,
		Policies: policies,
	}), nil
}

// RecordsForLessons returns the raw classified records backing a rollup, in a
// stable (lesson, student) order. Used for report rawData and CSV export.
func (svc *Service) RecordsForLessons(ctx context.Context, lessonIDs []string) ([]Record, error) {
	records, err := svc.repo.QueryRecords(ctx, RecordFilter{LessonIDs: lessonIDs})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].LessonID != records[j].LessonID {
			return records[i].LessonID < records[j].LessonID
		}
		return records[i].StudentID < records[j].StudentID
	})
	return records, nil
}
