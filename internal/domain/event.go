package domain

import (
	"fmt"
	"time"
)

// SnapshotEvent records one computed dashboard view for downstream analytics.
type SnapshotEvent struct {
	SessionID     string    `json:"session_id"`
	State         string    `json:"state"`
	Metro         string    `json:"metro"`
	Date          time.Time `json:"date"`
	Neighborhoods []string  `json:"neighborhoods"`
	Rows          int       `json:"rows"`
	Mean          *float64  `json:"mean,omitempty"` // nil when the snapshot was empty
	Warnings      int       `json:"ambiguity_warnings"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// Key identifies the (state, metro, month) the event describes.
func (e SnapshotEvent) Key() string {
	return fmt.Sprintf("%s|%s|%s", e.State, e.Metro, e.Date.Format(DateLayout))
}

// NewSnapshotEvent stamps a view of sel for sessionID with the current clock time.
func NewSnapshotEvent(sessionID string, sel Selection, snap Snapshot, warnings int) SnapshotEvent {
	ev := SnapshotEvent{
		SessionID:     sessionID,
		State:         sel.State,
		Metro:         sel.Metro,
		Date:          snap.Date,
		Neighborhoods: append([]string{}, sel.Neighborhoods...),
		Rows:          len(snap.Rows),
		Warnings:      warnings,
		GeneratedAt:   clock.Now().UTC(),
	}
	if sum, err := snap.Summary(); err == nil {
		mean := sum.Mean
		ev.Mean = &mean
	}
	return ev
}
