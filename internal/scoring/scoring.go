// Package scoring turns raw per-criterion precheck scores into a single
// composite 0-100 score plus a per-criterion breakdown for display.
package scoring

import (
	"encoding/json"
	"math"
)

// Criterion is a minimal view of a session rubric criterion needed for
// aggregation. Keep this in sync with whatever fields your store uses.
type Criterion struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Overall precheck categories produced by the AI prechecker.
const (
	OverallReady          = "ready"
	OverallNeedsWork      = "needs_work"
	OverallCriticalIssues = "critical_issues"
)

// Fallback maps an overall precheck category to a composite score, used
// whenever no usable per-criterion scores exist.
func Fallback(category string) int {
	switch category {
	case OverallReady:
		return 85
	case OverallNeedsWork:
		return 65
	case OverallCriticalIssues:
		return 40
	default:
		return 0
	}
}

// ParseScores parses a raw rubric-scores JSON object into key -> score.
// Non-numeric values are dropped. ok is false when the payload is absent,
// unparseable, or yields zero numeric entries; callers route that to the
// fallback path. Parse failures never propagate.
func ParseScores(raw []byte) (map[string]float64, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// ResolveWeight resolves the weight for a rubric-scores key. Upstream
// producers key scores by criterion id or by display name interchangeably,
// so the id match is tried first, then the name match, else 0.
func ResolveWeight(key string, criteria []Criterion) float64 {
	for _, c := range criteria {
		if c.ID == key {
			return c.Weight
		}
	}
	for _, c := range criteria {
		if c.Name == key {
			return c.Weight
		}
	}
	return 0
}

// Composite aggregates parsed per-criterion scores into one 0-100 score.
// Weighted mean over resolved weights; unweighted mean when no key matched
// any criterion; Fallback(category) when scores is empty or nil.
// Raw scores are trusted to stay in range; no clamping here.
func Composite(scores map[string]float64, criteria []Criterion, fallbackCategory string) int {
	if len(scores) == 0 {
		return Fallback(fallbackCategory)
	}
	var weightedSum, totalWeight, sum float64
	for key, raw := range scores {
		w := ResolveWeight(key, criteria)
		weightedSum += raw * w
		totalWeight += w
		sum += raw
	}
	if totalWeight > 0 {
		return int(math.Round(weightedSum / totalWeight))
	}
	return int(math.Round(sum / float64(len(scores))))
}

// CompositeRaw is Composite over an unparsed JSON payload.
func CompositeRaw(raw []byte, criteria []Criterion, fallbackCategory string) int {
	scores, ok := ParseScores(raw)
	if !ok {
		return Fallback(fallbackCategory)
	}
	return Composite(scores, criteria, fallbackCategory)
}

// CriterionScore is one row of the per-criterion breakdown. Score is nil
// when the criterion was not graded in this precheck run.
type CriterionScore struct {
	CriterionID string  `json:"criterion_id"`
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Score       *int    `json:"score"`
}

// Breakdown reports each criterion's rounded score in session order,
// looking scores up by id then by name.
func Breakdown(scores map[string]float64, criteria []Criterion) []CriterionScore {
	out := make([]CriterionScore, 0, len(criteria))
	for _, c := range criteria {
		cs := CriterionScore{CriterionID: c.ID, Name: c.Name, Weight: c.Weight}
		if v, ok := scores[c.ID]; ok {
			n := int(math.Round(v))
			cs.Score = &n
		} else if v, ok := scores[c.Name]; ok {
			n := int(math.Round(v))
			cs.Score = &n
		}
		out = append(out, cs)
	}
	return out
}
