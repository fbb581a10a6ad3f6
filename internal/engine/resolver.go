package engine

import (
	"sort"
	"time"
)

// Resolve computes which reminder rules are due at now across all candidates.
// Pure function: no clock access, no side effects. A rule is due iff its fire
// time (session start minus the fractional-hour offset) is at or before now
// and no SentReminder exists for it. Several rules of one candidate may be
// due in the same tick, and a fire time far in the past is still due; there
// is no missed-reminder suppression.
//
// The result is ordered by ascending fire time, ties broken by session id
// then rule number, so processing order within a tick is deterministic.
func Resolve(now time.Time, candidates []Candidate) []DueNotification {
	var due []DueNotification
	for _, c := range candidates {
		if c.Session == nil || c.Config == nil || !c.Config.Active {
			continue
		}
		for _, rule := range c.Config.Schedule {
			if c.Sent[rule.Number] {
				continue
			}
			fireAt := rule.FireTime(c.StartsAt)
			if fireAt.After(now) {
				continue
			}
			due = append(due, DueNotification{Candidate: c, Rule: rule, FireAt: fireAt})
		}
	}
	sort.Slice(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if !a.FireAt.Equal(b.FireAt) {
			return a.FireAt.Before(b.FireAt)
		}
		if a.Candidate.Session.SessionID != b.Candidate.Session.SessionID {
			return a.Candidate.Session.SessionID < b.Candidate.Session.SessionID
		}
		return a.Rule.Number < b.Rule.Number
	})
	return due
}
