package service

import "github.com/affectsense/wearable-affect/internal/domain"

// Activity context thresholds, tuned for a 5-minute window.
const (
	StepsRestThreshold     = 5
	StepsLowThreshold      = 50
	StepsModerateThreshold = 200

	METsRestThreshold     = 1.5
	METsLowThreshold      = 3.0
	METsModerateThreshold = 6.0
)

// ClassifyActivityContext maps window activity totals to a movement-state
// label. Deterministic, total, never fails.
//
// A known sleep period overrides everything. METs are preferred when
// present because they are strictly more informative than step counts; the
// steps-only ladder is a degraded fallback. Missing steps count as zero;
// absence of step data must never read as "high movement".
func ClassifyActivityContext(steps, metsMean, azmMinutes *float64, hour int, sleepPeriod bool) domain.ActivityContext {
	if sleepPeriod {
		return domain.ActivitySleep
	}

	effectiveSteps := 0.0
	if steps != nil {
		effectiveSteps = *steps
	}

	if metsMean != nil {
		switch {
		case *metsMean <= METsRestThreshold && effectiveSteps <= StepsRestThreshold:
			return domain.ActivityRest
		case *metsMean <= METsLowThreshold:
			return domain.ActivityLowMovement
		case *metsMean <= METsModerateThreshold:
			return domain.ActivityModerateMovement
		default:
			return domain.ActivityHighMovement
		}
	}

	switch {
	case effectiveSteps <= StepsRestThreshold:
		return domain.ActivityRest
	case effectiveSteps <= StepsLowThreshold:
		return domain.ActivityLowMovement
	case effectiveSteps <= StepsModerateThreshold:
		return domain.ActivityModerateMovement
	default:
		return domain.ActivityHighMovement
	}
}
