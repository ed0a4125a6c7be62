// Package model defines the domain types shared across resolution,
// detection, and attribution.
package model

import "time"

// Message is one record from the ingested conversation stream, already
// tagged with a resolved company. Read-only to the core.
type Message struct {
	Company   string    `json:"company"`
	AuthorID  string    `json:"author_id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// StageDetection is one (stage, confidence) inference drawn from a single
// message. A message may produce several detections. Never mutated after
// creation.
type StageDetection struct {
	Company    string    `json:"company"`
	Stage      string    `json:"stage"`
	AuthorID   string    `json:"author_id"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
}

// AuthorizedParticipant is one roster entry. Unauthorized participants still
// earn credit, scaled by WeightMultiplier; the multiplier is never zero.
type AuthorizedParticipant struct {
	UserID           string  `json:"user_id"`
	Authorized       bool    `json:"authorized"`
	WeightMultiplier float64 `json:"weight_multiplier"`
}

// AttributionRecord is the final per-company credit split. RawPercent holds
// the accumulated stage-weight shares exactly as computed (the total may be
// below or above 100 when the configured stage weights are); RoundedPercent
// is the bucket-rounded projection for presentation and payroll.
type AttributionRecord struct {
	Company        string             `json:"company"`
	RawPercent     map[string]float64 `json:"raw_percent"`
	RoundedPercent map[string]float64 `json:"rounded_percent"`
}

// RunStatus represents the state of an attribution run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// AttributionRun groups the records produced by one invocation of the
// attribution engine.
type AttributionRun struct {
	ID        string    `json:"id"`
	Status    RunStatus `json:"status"`
	Companies int       `json:"companies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
