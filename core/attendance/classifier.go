package attendance

import (
	"fmt"

	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
)

// Classifier converts raw observations into final attendance records under a
// resolved policy. It is a pure transform: same observation + same policy
// always produces a byte-identical record.
type Classifier struct {
	matcher ReasonMatcher
}

func NewClassifier(matcher ...ReasonMatcher) *Classifier {
	m := ReasonMatcher(ContainsMatcher)
	if len(matcher) > 0 && matcher[0] != nil {
		m = matcher[0]
	}
	return &Classifier{matcher: m}
}

// Classify runs the ordered classification pipeline; later steps override
// earlier ones and every override is appended to the record's audit trail.
func (c *Classifier) Classify(obs Observation, pol policy.Policy) Record {
	rec := Record{
		StudentID: obs.StudentID,
		LessonID:  obs.LessonID,
		Status:    obs.Status,
		PolicyID:  pol.ID,
		Notes:     fmt.Sprintf("Policy: %s (ID: %s)", pol.Name, pol.ID),
	}

	// lateness: negative minute values mean no usable arrival data
	if obs.ArrivalMinutes != nil && *obs.ArrivalMinutes > 0 {
		arrival := *obs.ArrivalMinutes
		if arrival > pol.LateToleranceMinutes {
			rec.Status = StatusLate
			rec.AppliedRules = append(rec.AppliedRules,
				fmt.Sprintf("Late: %dmin > %dmin tolerance", arrival, pol.LateToleranceMinutes))
		} else {
			rec.Status = StatusPresent
			rec.AppliedRules = append(rec.AppliedRules,
				fmt.Sprintf("Present: %dmin within %dmin tolerance", arrival, pol.LateToleranceMinutes))
		}
	}

	// auto-excuse only upgrades an absence
	if pol.AutoExcuseEnabled && rec.Status == StatusAbsent && obs.ExcuseReason != "" {
		if matched, ok := matchReason(c.matcher, obs.ExcuseReason, pol.AutoExcuseReasons); ok {
			rec.Status = StatusExcused
			rec.AppliedRules = append(rec.AppliedRules,
				fmt.Sprintf("Auto-excused: %q matches policy reason %q", obs.ExcuseReason, matched))
		}
	}

	return rec
}
