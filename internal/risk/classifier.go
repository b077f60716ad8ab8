// Package risk classifies per-team delivery risk from schedule adherence,
// precheck failure rate and activity recency, and records the result as an
// append-only assessment history.
package risk

import (
	"fmt"
	"math"
	"time"
)

// Level is a traffic-light team-health classification.
type Level string

const (
	LevelGreen  Level = "green"
	LevelYellow Level = "yellow"
	LevelRed    Level = "red"
)

func (l Level) rank() int {
	switch l {
	case LevelYellow:
		return 1
	case LevelRed:
		return 2
	default:
		return 0
	}
}

// maxLevel makes the no-downgrade invariant structural: a signal can only
// raise the running level.
func maxLevel(a, b Level) Level {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// IsValid returns true if the level is a known value.
func (l Level) IsValid() bool {
	switch l {
	case LevelGreen, LevelYellow, LevelRed:
		return true
	default:
		return false
	}
}

// Schedule is the per-project expected-progress input, shared by every team
// in one classification run.
type Schedule struct {
	Start        time.Time // zero disables the schedule signal
	End          time.Time
	SessionCount int
}

// PrecheckFact is one precheck result pooled into the failure-rate window.
type PrecheckFact struct {
	Overall   string
	CreatedAt time.Time
}

// ArtifactFact is a minimal view of one team artifact. Prechecks carries at
// most the N most recent results, newest first, as fetched by the store.
type ArtifactFact struct {
	Status    string
	UpdatedAt time.Time
	Prechecks []PrecheckFact
}

// Artifact statuses that count as a completed unit of work for the
// schedule signal. No per-session dedup: every qualifying artifact counts.
func completesSession(status string) bool {
	return status == "approved" || status == "submitted"
}

// Assessment is one team's classification outcome. LastActivity is the zero
// time when the team has no artifacts; FailureRate is nil when the team has
// no precheck history.
type Assessment struct {
	Level          Level
	Factors        []string
	LastActivity   time.Time
	SessionsBehind int
	FailureRate    *int
}

// Classify combines the three risk signals for one team. Signals run in a
// fixed order (schedule, precheck, activity); each may only escalate the
// level. Factor strings are appended whenever a signal's own threshold is
// met, even when the escalation itself is a no-op because the level is
// already red.
func Classify(sched Schedule, artifacts []ArtifactFact, now time.Time) Assessment {
	a := Assessment{Level: LevelGreen, Factors: []string{}}

	// Signal 1: schedule adherence.
	expected := expectedSessions(sched, now)
	completed := 0
	for _, art := range artifacts {
		if completesSession(art.Status) {
			completed++
		}
	}
	behind := expected - completed
	if behind < 0 {
		behind = 0
	}
	a.SessionsBehind = behind
	switch {
	case behind >= 2:
		a.Level = maxLevel(a.Level, LevelRed)
		a.Factors = append(a.Factors, fmt.Sprintf("%d sessions behind schedule", behind))
	case behind == 1:
		a.Level = maxLevel(a.Level, LevelYellow)
		a.Factors = append(a.Factors, "1 session behind schedule")
	}

	// Signal 2: precheck failure rate over the pooled recent window.
	pool, failed := 0, 0
	for _, art := range artifacts {
		for _, p := range art.Prechecks {
			pool++
			if p.Overall == "critical_issues" {
				failed++
			}
		}
	}
	if pool > 0 {
		rate := int(math.Round(float64(failed) / float64(pool) * 100))
		a.FailureRate = &rate
		switch {
		case rate > 50:
			a.Level = maxLevel(a.Level, LevelRed)
			a.Factors = append(a.Factors, fmt.Sprintf("High precheck failure rate (%d%%)", rate))
		case rate > 30:
			a.Level = maxLevel(a.Level, LevelYellow)
			a.Factors = append(a.Factors, fmt.Sprintf("Elevated precheck failure rate (%d%%)", rate))
		}
	}

	// Signal 3: activity recency. A team with no artifacts contributes no
	// activity signal and stores a null last-activity timestamp.
	var last time.Time
	for _, art := range artifacts {
		if art.UpdatedAt.After(last) {
			last = art.UpdatedAt
		}
	}
	a.LastActivity = last
	if !last.IsZero() {
		days := int(now.Sub(last).Hours() / 24)
		switch {
		case days > 7:
			a.Level = maxLevel(a.Level, LevelRed)
			a.Factors = append(a.Factors, fmt.Sprintf("No activity for %d days", days))
		case days > 3:
			a.Level = maxLevel(a.Level, LevelYellow)
			a.Factors = append(a.Factors, fmt.Sprintf("Limited activity (%d days ago)", days))
		}
	}

	return a
}

// expectedSessions maps elapsed project time onto the session sequence.
// A missing start date or a non-positive duration disables the signal.
func expectedSessions(sched Schedule, now time.Time) int {
	if sched.Start.IsZero() || sched.End.IsZero() {
		return 0
	}
	duration := sched.End.Sub(sched.Start)
	if duration <= 0 {
		return 0
	}
	elapsed := now.Sub(sched.Start)
	return int(math.Floor(elapsed.Seconds() / duration.Seconds() * float64(sched.SessionCount)))
}
