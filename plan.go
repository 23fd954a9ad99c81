package repojanitor

import (
	"regexp"
	"sort"
)

// Action is the retention decision for a single component.
type Action string

const (
	ActionKeep   Action = "keep"
	ActionDelete Action = "delete"
)

// Decision pairs a component with its retention action. Decisions are
// ordered group by group, most recent first within each group.
type Decision struct {
	Component Component
	Action    Action
}

// Plan classifies every component as keep or delete. Within each group,
// components are ranked by last-modified descending and the keepCount most
// recent ones are kept; ties keep their original listing order (stable
// sort), so plans are reproducible across runs. Groups whose key matches
// one of keepPatterns are kept whole, regardless of rank.
func Plan(components []Component, groups []string, keepCount int, keepPatterns []*regexp.Regexp) []Decision {
	decisions := make([]Decision, 0, len(components))

	for _, group := range groups {
		var members []Component
		for _, c := range components {
			if c.Group == group {
				members = append(members, c)
			}
		}
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].LastModified.After(members[j].LastModified)
		})

		protected := matchesAny(group, keepPatterns)
		for rank, c := range members {
			action := ActionDelete
			if protected || rank < keepCount {
				action = ActionKeep
			}
			decisions = append(decisions, Decision{Component: c, Action: action})
		}
	}

	return decisions
}

func matchesAny(group string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(group) {
			return true
		}
	}
	return false
}
