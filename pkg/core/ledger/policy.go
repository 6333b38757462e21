package ledger

import (
	"strings"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// ExclusionPolicy removes workers from the eligible set beyond the fixed rule
// that nobody takes over their own assignment
type ExclusionPolicy interface {
	Excludes(worker db.Worker, assignment db.Assignment) bool
}

// NoExclusions keeps every worker eligible
type NoExclusions struct{}

func (NoExclusions) Excludes(db.Worker, db.Assignment) bool { return false }

// OnLeavePolicy excludes workers listed by email or worker ID
type OnLeavePolicy struct {
	onLeave map[string]bool
}

// NewOnLeavePolicy creates an OnLeavePolicy. Emails match case-insensitively.
func NewOnLeavePolicy(identities []string) *OnLeavePolicy {
	p := &OnLeavePolicy{onLeave: make(map[string]bool, len(identities))}
	for _, id := range identities {
		p.onLeave[strings.ToLower(strings.TrimSpace(id))] = true
	}
	return p
}

func (p *OnLeavePolicy) Excludes(worker db.Worker, _ db.Assignment) bool {
	return p.onLeave[strings.ToLower(worker.Email)] || p.onLeave[strings.ToLower(worker.ID)]
}
