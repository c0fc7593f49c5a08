package entity

import (
	"time"

	"github.com/google/uuid"
)

// Run represents one extraction batch as stored in the run ledger.
type Run struct {
	ID         uuid.UUID  `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Force      bool       `json:"force"`
	Processed  int        `json:"processed"`
	Succeeded  int        `json:"succeeded"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
}

// ItemRecord is the ledger row for one item outcome within a run.
type ItemRecord struct {
	RunID         uuid.UUID `json:"run_id"`
	Category      string    `json:"category"`
	Slide         int       `json:"slide"`
	Status        string    `json:"status"`
	MissingFields []string  `json:"missing_fields,omitempty"`
	Message       string    `json:"message,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}
