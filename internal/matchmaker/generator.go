// Package matchmaker turns a scored queue snapshot into a balanced four-player match proposal.
package matchmaker

import (
	"sort"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
)

const (
	PoolSize          = 6
	WildcardDepth     = 10
	OutlierGap        = 400
	VIPGuestFloor     = 2000
	VIPPartnerFloor   = 1800
	playersPerMatch   = 4
	vipPartnersNeeded = 3
)

// Entry is one queued player with the priority score it was ranked by.
type Entry struct {
	Profile *model.Profile
	Score   int
}

// Proposal is a generated match. Team1 holds the highest and lowest rated players.
type Proposal struct {
	Team1     []Entry
	Team2     []Entry
	Category  model.Category
	PlayerIDs []string
}

type candidate struct {
	Entry
	rank   int // position in the input snapshot, used as the stable tie-breaker
	gender model.Gender
}

// Generate proposes a match from queue, which must already be sorted by score descending.
// It returns nil when fewer than four eligible players are waiting.
func Generate(queue []Entry) *Proposal {
	cands := eligible(queue)
	if len(cands) < playersPerMatch {
		return nil
	}

	if p := vipMatch(cands); p != nil {
		return p
	}

	n := PoolSize
	if len(cands) < n {
		n = len(cands)
	}
	pool := append([]candidate(nil), cands[:n]...)
	pool = balanceGender(pool, cands)

	selected, category := selectFour(pool)
	selected = guardOutlier(selected, pool, category)
	return split(selected, category)
}

func eligible(queue []Entry) []candidate {
	seen := make(map[string]bool, len(queue))
	out := make([]candidate, 0, len(queue))
	for _, e := range queue {
		if e.Profile == nil || e.Profile.ID == "" || seen[e.Profile.ID] {
			continue
		}
		seen[e.Profile.ID] = true
		out = append(out, candidate{
			Entry:  e,
			rank:   len(out),
			gender: model.NormalizeGender(string(e.Profile.Gender)),
		})
	}
	return out
}

// vipMatch fast-tracks the first top-rated guest with the first three strong partners.
func vipMatch(cands []candidate) *Proposal {
	vip := -1
	for i, c := range cands {
		if c.Profile.IsGuest && c.Profile.BestRating() >= VIPGuestFloor {
			vip = i
			break
		}
	}
	if vip < 0 {
		return nil
	}
	selected := []candidate{cands[vip]}
	for i, c := range cands {
		if i == vip || c.Profile.BestRating() < VIPPartnerFloor {
			continue
		}
		selected = append(selected, c)
		if len(selected) == 1+vipPartnersNeeded {
			return split(selected, model.CategoryVIP)
		}
	}
	return nil
}

// balanceGender swaps a wildcard from ranks 7-10 into a single-gender pool.
func balanceGender(pool, cands []candidate) []candidate {
	if len(pool) < PoolSize {
		return pool
	}
	males := 0
	for _, c := range pool {
		if c.gender == model.GenderMale {
			males++
		}
	}
	var want model.Gender
	switch {
	case males == 0:
		want = model.GenderMale
	case males >= PoolSize:
		want = model.GenderFemale
	default:
		return pool
	}
	end := WildcardDepth
	if len(cands) < end {
		end = len(cands)
	}
	for _, c := range cands[PoolSize:end] {
		if c.gender == want {
			pool[len(pool)-1] = c
			return pool
		}
	}
	return pool
}

func selectFour(pool []candidate) ([]candidate, model.Category) {
	var men, women []candidate
	for _, c := range pool {
		if c.gender == model.GenderMale {
			men = append(men, c)
		} else {
			women = append(women, c)
		}
	}
	switch {
	case len(women) >= playersPerMatch:
		return clone(women[:playersPerMatch]), model.CategoryWomenDoubles
	case len(men) >= playersPerMatch:
		return clone(men[:playersPerMatch]), model.CategoryMenDoubles
	case len(men) >= 2 && len(women) >= 2:
		picked := append(clone(men[:2]), women[:2]...)
		byRank(picked)
		return picked, model.CategoryMixed
	}
	return clone(pool[:playersPerMatch]), model.CategoryMixed
}

// guardOutlier replaces a top player rated more than OutlierGap above the runner-up with a
// same-gender reserve from the pool. Without a reserve the selection is kept as is.
func guardOutlier(selected, pool []candidate, category model.Category) []candidate {
	ranked := clone(selected)
	byRating(ranked, category)
	if ratingOf(ranked[0], category)-ratingOf(ranked[1], category) <= OutlierGap {
		return selected
	}
	outlier := ranked[0]

	taken := make(map[string]bool, len(selected))
	for _, c := range selected {
		taken[c.Profile.ID] = true
	}
	for _, reserve := range pool {
		if taken[reserve.Profile.ID] || reserve.gender != outlier.gender {
			continue
		}
		out := make([]candidate, 0, len(selected))
		for _, c := range selected {
			if c.Profile.ID == outlier.Profile.ID {
				c = reserve
			}
			out = append(out, c)
		}
		byRank(out)
		return out
	}
	return selected
}

// split pairs rank 1 with rank 4 and rank 2 with rank 3.
func split(selected []candidate, category model.Category) *Proposal {
	ranked := clone(selected)
	byRank(ranked)
	byRating(ranked, category)

	p := &Proposal{
		Team1:    []Entry{ranked[0].Entry, ranked[3].Entry},
		Team2:    []Entry{ranked[1].Entry, ranked[2].Entry},
		Category: category,
	}
	for _, e := range append(append([]Entry(nil), p.Team1...), p.Team2...) {
		p.PlayerIDs = append(p.PlayerIDs, e.Profile.ID)
	}
	return p
}

func ratingOf(c candidate, category model.Category) int {
	return c.Profile.RatingFor(category)
}

func byRating(cs []candidate, category model.Category) {
	sort.SliceStable(cs, func(i, j int) bool {
		return ratingOf(cs[i], category) > ratingOf(cs[j], category)
	})
}

func byRank(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].rank < cs[j].rank })
}

func clone(cs []candidate) []candidate {
	return append([]candidate(nil), cs...)
}
