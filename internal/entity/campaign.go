package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"strings"
)

// CampaignSnapshot is derived from the store and the roster on every read.
type CampaignSnapshot struct {
	SignedCount     int  `json:"signedCount"`
	RosterCount     int  `json:"rosterCount"`
	TotalSignatures int  `json:"totalSignatures"`
	IsComplete      bool `json:"isComplete"`
	// Key identifies the completed state. Empty while incomplete.
	Key string `json:"-"`
}

// ComputeSnapshot counts roster employees with a signature. HR and board
// signatures show up in TotalSignatures only. An empty roster is never complete.
func ComputeSnapshot(signatures []SignatureRecord, r Roster) CampaignSnapshot {
	signed := make(map[string]struct{}, len(signatures))
	for _, s := range signatures {
		if email := NormalizeEmail(s.Email); email != "" {
			signed[email] = struct{}{}
		}
	}

	covered := make([]string, 0, len(r.employees))
	for _, p := range r.employees {
		if _, ok := signed[p.Email]; ok {
			covered = append(covered, p.Email)
		}
	}

	snap := CampaignSnapshot{
		SignedCount:     len(covered),
		RosterCount:     len(r.employees),
		TotalSignatures: len(signed),
	}
	snap.IsComplete = snap.RosterCount > 0 && snap.SignedCount == snap.RosterCount
	if snap.IsComplete {
		snap.Key = completionKey(covered)
	}
	return snap
}

func completionKey(emails []string) string {
	sorted := make([]string, len(emails))
	copy(sorted, emails)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(sum[:])
}

// Percent is round(signed/roster*100), 0 for an empty roster.
func (s CampaignSnapshot) Percent() int {
	if s.RosterCount == 0 {
		return 0
	}
	return int(math.Round(float64(s.SignedCount) / float64(s.RosterCount) * 100))
}

// Progress splits the roster employees into signed and pending, in roster order.
func Progress(signatures []SignatureRecord, r Roster) (signed, pending []Person) {
	have := make(map[string]struct{}, len(signatures))
	for _, s := range signatures {
		have[NormalizeEmail(s.Email)] = struct{}{}
	}
	signed, pending = []Person{}, []Person{}
	for _, p := range r.employees {
		if _, ok := have[p.Email]; ok {
			signed = append(signed, p)
		} else {
			pending = append(pending, p)
		}
	}
	return signed, pending
}
