package domain

import (
	"strings"

	activitydomain "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
)

// Kind is the single bucket an activity is counted under.
type Kind string

const (
	KindQuiz       Kind = "quiz"
	KindDiagnostic Kind = "diagnostic"
	KindLesson     Kind = "lesson"
	KindReview     Kind = "review"
	KindMultistep  Kind = "multistep"
	KindUnknown    Kind = ""
)

// diagnosticLike are the type/name values that mark an activity as having
// no fixed point budget.
var diagnosticLike = map[string]struct{}{
	"diagnostic":              {},
	"assessment":              {},
	"supplemental diagnostic": {},
	"placement":               {},
	"supplemental":            {},
}

// IsQuiz reports whether the activity's associated test name contains
// "quiz". This check has priority over the type field everywhere.
func IsQuiz(a activitydomain.Activity) bool {
	return strings.Contains(strings.ToLower(a.Test.Name), "quiz")
}

// IsDiagnosticLike reports whether the activity counts as a diagnostic:
// 100% attainment, no fixed point budget. A quiz is never diagnostic-like,
// even when its type matches the diagnostic set.
func IsDiagnosticLike(a activitydomain.Activity) bool {
	if IsQuiz(a) {
		return false
	}
	if _, ok := diagnosticLike[strings.ToLower(strings.TrimSpace(a.Type))]; ok {
		return true
	}
	_, ok := diagnosticLike[strings.ToLower(strings.TrimSpace(a.Test.Name))]
	return ok
}

// Classify puts an activity into exactly one bucket. Unrecognized types
// yield KindUnknown and are silently dropped from counts.
func Classify(a activitydomain.Activity) Kind {
	if IsQuiz(a) {
		return KindQuiz
	}
	lowered := strings.ToLower(strings.TrimSpace(a.Type))
	if _, ok := diagnosticLike[lowered]; ok {
		return KindDiagnostic
	}
	switch lowered {
	case "lesson":
		return KindLesson
	case "review":
		return KindReview
	case "multistep":
		return KindMultistep
	case "quiz":
		return KindQuiz
	default:
		return KindUnknown
	}
}

// CountByKind tallies activities per bucket, dropping unrecognized types.
func CountByKind(items []activitydomain.Activity) map[Kind]int {
	counts := make(map[Kind]int)
	for _, item := range items {
		kind := Classify(item)
		if kind == KindUnknown {
			continue
		}
		counts[kind]++
	}
	return counts
}
