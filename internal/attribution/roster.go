// Package attribution turns stage detections into a per-participant credit
// split.
package attribution

import (
	"github.com/sells-group/commission-cli/internal/model"
)

// DefaultUnauthorizedWeight is the multiplier applied to detections from
// unauthorized or unknown participants. Non-sales-rep contributions count at
// reduced weight; they are never silently discarded.
const DefaultUnauthorizedWeight = 0.5

// Roster is the authorized-participant table. Lookups for unknown users
// never fail: there is exactly one default-construction path, returning an
// unauthorized entry at the reduced weight.
type Roster struct {
	participants       map[string]model.AuthorizedParticipant
	unauthorizedWeight float64
}

// NewRoster builds a roster. unauthorizedWeight applies to unknown users
// and to roster entries without an explicit multiplier; values outside
// (0, 1] fall back to DefaultUnauthorizedWeight.
func NewRoster(participants []model.AuthorizedParticipant, unauthorizedWeight float64) *Roster {
	if unauthorizedWeight <= 0 || unauthorizedWeight > 1 {
		unauthorizedWeight = DefaultUnauthorizedWeight
	}
	byID := make(map[string]model.AuthorizedParticipant, len(participants))
	for _, p := range participants {
		if p.WeightMultiplier <= 0 || p.WeightMultiplier > 1 {
			if p.Authorized {
				p.WeightMultiplier = 1.0
			} else {
				p.WeightMultiplier = unauthorizedWeight
			}
		}
		byID[p.UserID] = p
	}
	return &Roster{participants: byID, unauthorizedWeight: unauthorizedWeight}
}

// Lookup returns the roster entry for a user. Unknown users get the default
// unauthorized entry rather than an error.
func (r *Roster) Lookup(userID string) model.AuthorizedParticipant {
	if p, ok := r.participants[userID]; ok {
		return p
	}
	return model.AuthorizedParticipant{
		UserID:           userID,
		Authorized:       false,
		WeightMultiplier: r.unauthorizedWeight,
	}
}
