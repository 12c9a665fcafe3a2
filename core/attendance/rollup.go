package attendance

import (
	"sort"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
	"github.com/codelasak/fa-akademi-tool-sub000/core/school"
)

type (
	// RollupInput carries one reporting window's classified records plus the
	// read-only context needed to group them: lesson -> class, class -> school,
	// and the policy currently in force per class (concern thresholds are
	// evaluated against the policy at report time, not classification time).
	RollupInput struct {
		Records  []Record
		Lessons  map[string]Lesson        // by lesson ID
		Classes  map[string]school.Class  // by class ID
		Policies map[string]policy.Policy // current policy by class ID
	}

	StudentStats struct {
		StudentID      string  `json:"student_id"`
		ClassID        string  `json:"class_id"`
		TotalLessons   int     `json:"total_lessons"`
		PresentCount   int     `json:"present_count"`
		AbsentCount    int     `json:"absent_count"`
		LateCount      int     `json:"late_count"`
		ExcusedCount   int     `json:"excused_count"`
		AttendanceRate float64 `json:"attendance_rate"` // percentage, 2dp
	}

	ClassStats struct {
		ClassID        string  `json:"class_id"`
		SchoolID       string  `json:"school_id"`
		TotalStudents  int     `json:"total_students"` // distinct students
		TotalLessons   int     `json:"total_lessons"`  // record rows
		PresentCount   int     `json:"present_count"`
		AbsentCount    int     `json:"absent_count"`
		LateCount      int     `json:"late_count"`
		ExcusedCount   int     `json:"excused_count"`
		AttendanceRate float64 `json:"attendance_rate"`
	}

	SchoolStats struct {
		SchoolID       string  `json:"school_id"`
		TotalClasses   int     `json:"total_classes"`  // distinct classes
		TotalStudents  int     `json:"total_students"` // distinct students
		TotalLessons   int     `json:"total_lessons"`
		PresentCount   int     `json:"present_count"`
		AbsentCount    int     `json:"absent_count"`
		LateCount      int     `json:"late_count"`
		ExcusedCount   int     `json:"excused_count"`
		AttendanceRate float64 `json:"attendance_rate"`
	}

	ConcernStudent struct {
		StudentID        string  `json:"student_id"`
		ClassID          string  `json:"class_id"`
		AttendanceRate   float64 `json:"attendance_rate"`
		ConcernThreshold float64 `json:"concern_threshold"`
		PolicyID         string  `json:"policy_id"`
	}

	Rollup struct {
		ByStudent       []StudentStats   `json:"by_student"`
		ByClass         []ClassStats     `json:"by_class"`
		BySchool        []SchoolStats    `json:"by_school"`
		ConcernStudents []ConcernStudent `json:"concern_students"`
		TotalRecords    int              `json:"total_records"`
		OverallRate     float64          `json:"overall_rate"` // present-or-late share, 2dp
	}
)

// studentAcc & friends are explicit accumulators keyed by identifier; the
// whole rollup is a single pass over the records followed by a sorted flush,
// so output ordering never depends on map iteration order.
type (
	statusCounts struct {
		present, absent, late, excused int
	}

	studentAcc struct {
		classID string
		counts  statusCounts
		total   int
	}

	classAcc struct {
		schoolID string
		students map[string]struct{}
		counts   statusCounts
		total    int
	}

	schoolAcc struct {
		classes  map[string]struct{}
		students map[string]struct{}
		counts   statusCounts
		total    int
	}
)

func (c *statusCounts) add(status string) {
	switch status {
	case StatusPresent:
		c.present++
	case StatusAbsent:
		c.absent++
	case StatusLate:
		c.late++
	case StatusExcused:
		c.excused++
	}
}

// attendedRate is (present + late + excused) / total * 100, rounded to 2dp.
func attendedRate(c statusCounts, total int) float64 {
	if total == 0 {
		return 0
	}
	return core.Round2(float64(c.present+c.late+c.excused) / float64(total) * 100)
}

// Aggregate rolls classified records into per-student, per-class and
// per-school statistics plus the concern list. Entities with zero records do
// not appear and are excluded from concern detection.
func Aggregate(in RollupInput) Rollup {
	students := make(map[string]*studentAcc)
	classes := make(map[string]*classAcc)
	schools := make(map[string]*schoolAcc)

	var presentOrLate int
	for _, rec := range in.Records {
		lesson, ok := in.Lessons[rec.LessonID]
		if !ok {
			continue // record without lesson context cannot be grouped
		}
		classID := lesson.ClassID
		schoolID := ""
		if cls, ok := in.Classes[classID]; ok {
			schoolID = cls.SchoolID
		}

		sa, ok := students[rec.StudentID]
		if !ok {
			sa = &studentAcc{classID: classID}
			students[rec.StudentID] = sa
		}
		sa.counts.add(rec.Status)
		sa.total++

		ca, ok := classes[classID]
		if !ok {
			ca = &classAcc{schoolID: schoolID, students: make(map[string]struct{})}
			classes[classID] = ca
		}
		ca.students[rec.StudentID] = struct{}{}
		ca.counts.add(rec.Status)
		ca.total++

		if schoolID != "" {
			ha, ok := schools[schoolID]
			if !ok {
				ha = &schoolAcc{classes: make(map[string]struct{}), students: make(map[string]struct{})}
				schools[schoolID] = ha
			}
			ha.classes[classID] = struct{}{}
			ha.students[rec.StudentID] = struct{}{}
			ha.counts.add(rec.Status)
			ha.total++
		}

		if rec.Status == StatusPresent || rec.Status == StatusLate {
			presentOrLate++
		}
	}

	out := Rollup{TotalRecords: len(in.Records)}
	if out.TotalRecords > 0 {
		out.OverallRate = core.Round2(float64(presentOrLate) / float64(out.TotalRecords) * 100)
	}

	for _, id := range sortedKeys(students) {
		sa := students[id]
		out.ByStudent = append(out.ByStudent, StudentStats{
			StudentID:      id,
			ClassID:        sa.classID,
			TotalLessons:   sa.total,
			PresentCount:   sa.counts.present,
			AbsentCount:    sa.counts.absent,
			LateCount:      sa.counts.late,
			ExcusedCount:   sa.counts.excused,
			AttendanceRate: attendedRate(sa.counts, sa.total),
		})
	}
	for _, id := range sortedKeys(classes) {
		ca := classes[id]
		out.ByClass = append(out.ByClass, ClassStats{
			ClassID:        id,
			SchoolID:       ca.schoolID,
			TotalStudents:  len(ca.students),
			TotalLessons:   ca.total,
			PresentCount:   ca.counts.present,
			AbsentCount:    ca.counts.absent,
			LateCount:      ca.counts.late,
			ExcusedCount:   ca.counts.excused,
			AttendanceRate: attendedRate(ca.counts, ca.total),
		})
	}
	for _, id := range sortedKeys(schools) {
		ha := schools[id]
		out.BySchool = append(out.BySchool, SchoolStats{
			SchoolID:       id,
			TotalClasses:   len(ha.classes),
			TotalStudents:  len(ha.students),
			TotalLessons:   ha.total,
			PresentCount:   ha.counts.present,
			AbsentCount:    ha.counts.absent,
			LateCount:      ha.counts.late,
			ExcusedCount:   ha.counts.excused,
			AttendanceRate: attendedRate(ha.counts, ha.total),
		})
	}

	// concern detection: strictly below the class's current threshold
	for _, st := range out.ByStudent {
		pol, ok := in.Policies[st.ClassID]
		if !ok {
			pol = policy.Default()
		}
		if st.TotalLessons > 0 && st.AttendanceRate < pol.ConcernThreshold {
			out.ConcernStudents = append(out.ConcernStudents, ConcernStudent{
				StudentID:        st.StudentID,
				ClassID:          st.ClassID,
				AttendanceRate:   st.AttendanceRate,
				ConcernThreshold: pol.ConcernThreshold,
				PolicyID:         pol.ID,
			})
		}
	}

	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
