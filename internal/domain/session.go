package domain

import (
	"errors"
	"time"
)

type SessionState string

const (
	StateResolving    SessionState = "resolving"
	StateConflict     SessionState = "conflict"
	StateResolved     SessionState = "resolved"
	StateFiltering    SessionState = "filtering"
	StateLocatingEnv  SessionState = "locating_env"
	StateSnapshotting SessionState = "snapshotting"
	StatePlanning     SessionState = "planning"
	StateRemoving     SessionState = "removing"
	StateInstalling   SessionState = "installing"
	StateDone         SessionState = "done"
	StateFailed       SessionState = "failed"
)

type Outcome string

const (
	OutcomeSuccess             Outcome = "success"
	OutcomeResolutionFailed    Outcome = "resolution_failed"
	OutcomeEnvironmentNotFound Outcome = "environment_not_found"
	OutcomeSnapshotUnavailable Outcome = "snapshot_unavailable"
	OutcomeExecutionFailed     Outcome = "execution_failed"
	OutcomeFailed              Outcome = "failed"
)

func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrResolutionFailed):
		return OutcomeResolutionFailed
	case errors.Is(err, ErrEnvironmentNotFound):
		return OutcomeEnvironmentNotFound
	case errors.Is(err, ErrSnapshotUnavailable):
		return OutcomeSnapshotUnavailable
	case errors.Is(err, ErrExecutionFailed):
		return OutcomeExecutionFailed
	default:
		return OutcomeFailed
	}
}

type SessionReport struct {
	ID           string
	Source       string
	Environments []string
	State        SessionState
	FailedIn     SessionState
	Outcome      Outcome
	Conflict     string
	Error        string
	Plan         Plan
	StartedAt    time.Time
	FinishedAt   time.Time
}

func (r SessionReport) Summary() SessionSummary {
	return SessionSummary{
		ID:           r.ID,
		Source:       r.Source,
		Environments: append([]string(nil), r.Environments...),
		State:        r.State,
		FailedIn:     r.FailedIn,
		Outcome:      r.Outcome,
		Error:        r.Error,
		ToInstall:    len(r.Plan.ToInstall),
		ToRemove:     len(r.Plan.ToRemove),
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
}

// SessionSummary is what outlives a session: counts and outcome, never the
// plan itself.
type SessionSummary struct {
	ID           string
	Source       string
	Environments []string
	State        SessionState
	FailedIn     SessionState
	Outcome      Outcome
	Error        string
	ToInstall    int
	ToRemove     int
	StartedAt    time.Time
	FinishedAt   time.Time
}

func (s SessionSummary) Duration() time.Duration {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
