package attendance

import (
	"fmt"
	"testing"

	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
	"github.com/codelasak/fa-akademi-tool-sub000/core/school"
)

// buildInput creates a one-class rollup input with `lessons` lessons and one
// record per (student, lesson) drawn from statuses[studentID].
func buildInput(threshold float64, statuses map[string][]string) RollupInput {
	in := RollupInput{
		Lessons:  make(map[string]Lesson),
		Classes:  map[string]school.Class{"c1": {ID: "c1", SchoolID: "s1"}},
		Policies: map[string]policy.Policy{"c1": {ID: "pol-1", ConcernThreshold: threshold}},
	}
	maxLessons := 0
	for _, sts := range statuses {
		if len(sts) > maxLessons {
			maxLessons = len(sts)
		}
	}
	for i := 0; i < maxLessons; i++ {
		id := fmt.Sprintf("l%d", i+1)
		in.Lessons[id] = Lesson{ID: id, ClassID: "c1"}
	}
	for studentID, sts := range statuses {
		for i, st := range sts {
			in.Records = append(in.Records, Record{
				StudentID: studentID,
				LessonID:  fmt.Sprintf("l%d", i+1),
				Status:    st,
			})
		}
	}
	return in
}

func repeat(status string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = status
	}
	return out
}

func TestAggregateTotalsInvariant(t *testing.T) {
	in := buildInput(80, map[string][]string{
		"st1": {StatusPresent, StatusAbsent, StatusLate, StatusExcused, StatusPresent},
		"st2": {StatusAbsent, StatusAbsent},
		"st3": {StatusPresent},
	})
	out := Aggregate(in)

	if len(out.ByStudent) != 3 {
		t.Fatalf("ByStudent len = %d, want 3", len(out.ByStudent))
	}
	for _, st := range out.ByStudent {
		sum := st.PresentCount + st.AbsentCount + st.LateCount + st.ExcusedCount
		if sum != st.TotalLessons {
			t.Errorf("student %s: status counts sum %d != totalLessons %d", st.StudentID, sum, st.TotalLessons)
		}
	}
	if out.TotalRecords != 8 {
		t.Errorf("TotalRecords = %d, want 8", out.TotalRecords)
	}
}

func TestAggregateRounding(t *testing.T) {
	in := buildInput(80, map[string][]string{
		"st1": {StatusPresent, StatusAbsent, StatusAbsent},
	})
	out := Aggregate(in)

	if got := out.ByStudent[0].AttendanceRate; got != 33.33 {
		t.Errorf("AttendanceRate = %v, want 33.33", got)
	}
}

func TestAggregateConcernThresholdExclusive(t *testing.T) {
	in := buildInput(80, map[string][]string{
		"st-low":  append(repeat(StatusPresent, 7), repeat(StatusAbsent, 3)...), // 70%
		"st-edge": append(repeat(StatusPresent, 8), repeat(StatusAbsent, 2)...), // 80%
	})
	out := Aggregate(in)

	if len(out.ConcernStudents) != 1 {
		t.Fatalf("ConcernStudents = %+v, want exactly 1", out.ConcernStudents)
	}
	c := out.ConcernStudents[0]
	if c.StudentID != "st-low" {
		t.Errorf("concern student = %s, want st-low", c.StudentID)
	}
	if c.AttendanceRate != 70 || c.ConcernThreshold != 80 {
		t.Errorf("concern = %+v, want rate 70 threshold 80", c)
	}
	if c.PolicyID != "pol-1" {
		t.Errorf("concern policyID = %s, want pol-1", c.PolicyID)
	}
}

func TestAggregateOverallRate(t *testing.T) {
	// overall rate counts present-or-late only; excused does not count
	in := buildInput(80, map[string][]string{
		"st1": {StatusPresent, StatusLate, StatusExcused, StatusAbsent},
	})
	out := Aggregate(in)

	if out.OverallRate != 50 {
		t.Errorf("OverallRate = %v, want 50", out.OverallRate)
	}
	// while the student's own rate counts excused as attended
	if got := out.ByStudent[0].AttendanceRate; got != 75 {
		t.Errorf("AttendanceRate = %v, want 75", got)
	}
}

func TestAggregateDistinctCounts(t *testing.T) {
	in := RollupInput{
		Lessons: map[string]Lesson{
			"l1": {ID: "l1", ClassID: "c1"},
			"l2": {ID: "l2", ClassID: "c2"},
		},
		Classes: map[string]school.Class{
			"c1": {ID: "c1", SchoolID: "s1"},
			"c2": {ID: "c2", SchoolID: "s1"},
		},
		Policies: map[string]policy.Policy{},
		Records: []Record{
			{StudentID: "st1", LessonID: "l1", Status: StatusPresent},
			{StudentID: "st2", LessonID: "l1", Status: StatusPresent},
			{StudentID: "st3", LessonID: "l2", Status: StatusAbsent},
		},
	}
	out := Aggregate(in)

	if len(out.BySchool) != 1 {
		t.Fatalf("BySchool len = %d, want 1", len(out.BySchool))
	}
	sch := out.BySchool[0]
	if sch.TotalClasses != 2 {
		t.Errorf("TotalClasses = %d, want 2", sch.TotalClasses)
	}
	if sch.TotalStudents != 3 {
		t.Errorf("TotalStudents = %d, want 3", sch.TotalStudents)
	}
	if sch.TotalLessons != 3 {
		t.Errorf("TotalLessons = %d, want 3 record rows", sch.TotalLessons)
	}
}

func TestAggregateDeterministicOrder(t *testing.T) {
	in := buildInput(80, map[string][]string{
		"st-c": {StatusPresent},
		"st-a": {StatusPresent},
		"st-b": {StatusPresent},
	})

	first := Aggregate(in)
	for i := 0; i < 10; i++ {
		again := Aggregate(in)
		for j, st := range again.ByStudent {
			if st.StudentID != first.ByStudent[j].StudentID {
				t.Fatalf("run %d: order changed: %v", i, again.ByStudent)
			}
		}
	}
	want := []string{"st-a", "st-b", "st-c"}
	for i, st := range first.ByStudent {
		if st.StudentID != want[i] {
			t.Errorf("ByStudent[%d] = %s, want %s", i, st.StudentID, want[i])
		}
	}
}

func TestAggregateEmptySet(t *testing.T) {
	out := Aggregate(RollupInput{})

	if out.TotalRecords != 0 || out.OverallRate != 0 {
		t.Errorf("empty rollup = %+v, want zero totals", out)
	}
	if len(out.ByStudent) != 0 || len(out.ConcernStudents) != 0 {
		t.Errorf("empty rollup produced groups: %+v", out)
	}
}

func TestAggregateDefaultPolicyForUnresolvedClass(t *testing.T) {
	in := buildInput(80, map[string][]string{
		"st1": {StatusAbsent, StatusAbsent},
	})
	in.Policies = map[string]policy.Policy{} // nothing resolved for c1

	out := Aggregate(in)
	if len(out.ConcernStudents) != 1 {
		t.Fatalf("ConcernStudents len = %d, want 1", len(out.ConcernStudents))
	}
	if got := out.ConcernStudents[0].ConcernThreshold; got != 80 {
		t.Errorf("threshold = %v, want default 80", got)
	}
}
