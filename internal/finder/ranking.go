package finder

import (
	"sort"

	"github.com/mohammad-safakhou/steambuddy/internal/store"
)

// Candidate is a game owned by at least one principal in the filter, with its
// distinct owner set.
type Candidate struct {
	AppID  int64
	Owners []int64
}

// Rank groups ownership rows by game and orders the result by owner count
// descending, app id ascending. The ordering is total: no two candidates
// compare equal, so the output is deterministic for a fixed snapshot. A
// filter of one principal degrades to that member's whole library, which is
// accepted behavior.
func Rank(rows []store.OwnershipRow) []Candidate {
	owners := make(map[int64]map[int64]struct{})
	for _, r := range rows {
		set, ok := owners[r.AppID]
		if !ok {
			set = make(map[int64]struct{})
			owners[r.AppID] = set
		}
		set[r.OwnerID] = struct{}{}
	}

	candidates := make([]Candidate, 0, len(owners))
	for appID, set := range owners {
		c := Candidate{AppID: appID, Owners: make([]int64, 0, len(set))}
		for owner := range set {
			c.Owners = append(c.Owners, owner)
		}
		sort.Slice(c.Owners, func(i, j int) bool { return c.Owners[i] < c.Owners[j] })
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].Owners) != len(candidates[j].Owners) {
			return len(candidates[i].Owners) > len(candidates[j].Owners)
		}
		return candidates[i].AppID < candidates[j].AppID
	})
	return candidates
}
