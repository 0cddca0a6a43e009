// Package rating computes ELO-style rating changes for a finished match.
//
// FlatK is applied by the confirm transaction and DynamicK by administrative recomputes.
// Neither performs I/O.
package rating

import "math"

// Player is one participant's rating input for the category being played.
type Player struct {
	ID          string
	Rating      int
	IsGuest     bool
	Role        string
	GamesPlayed int
}

// Match is a finished result between two teams of one or two players.
type Match struct {
	Team1      []Player
	Team2      []Player
	Score1     int
	Score2     int
	Tournament bool
}

// Change is the rating movement for one player.
type Change struct {
	PlayerID string `json:"player_id"`
	Before   int    `json:"before"`
	Delta    int    `json:"delta"`
	After    int    `json:"after"`
}

// Strategy turns a match result into per-player changes, team 1 first.
type Strategy interface {
	Name() string
	Changes(m Match) []Change
}

// Expected returns the logistic expected score of a team rated ra against one rated rb.
func Expected(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// Actual returns team 1's result (1 win, 0.5 draw, 0 loss); team 2's is the complement.
func Actual(score1, score2 int) float64 {
	switch {
	case score1 > score2:
		return 1
	case score1 == score2:
		return 0.5
	}
	return 0
}

func teamMean(team []Player) float64 {
	if len(team) == 0 {
		return 0
	}
	sum := 0
	for _, p := range team {
		sum += p.Rating
	}
	return float64(sum) / float64(len(team))
}

// expectations yields each team's (actual - expected); ok is false when a team is empty.
func expectations(m Match) (diff1, diff2 float64, ok bool) {
	if len(m.Team1) == 0 || len(m.Team2) == 0 {
		return 0, 0, false
	}
	r1, r2 := teamMean(m.Team1), teamMean(m.Team2)
	a1 := Actual(m.Score1, m.Score2)
	diff1 = a1 - Expected(r1, r2)
	diff2 = (1 - a1) - Expected(r2, r1)
	if math.IsNaN(diff1) || math.IsNaN(diff2) {
		return 0, 0, false
	}
	return diff1, diff2, true
}

func change(p Player, delta float64) Change {
	d := 0
	if !math.IsNaN(delta) && !math.IsInf(delta, 0) {
		d = int(math.Round(delta))
	}
	return Change{PlayerID: p.ID, Before: p.Rating, Delta: d, After: p.Rating + d}
}

// FlatK uses one K for everyone; guests move GuestMultiplier times as fast.
type FlatK struct {
	K               float64
	GuestMultiplier float64
}

// NewFlatK returns K=32 with a 1.5x guest multiplier.
func NewFlatK() FlatK {
	return FlatK{K: 32, GuestMultiplier: 1.5}
}

func (FlatK) Name() string { return "flat_k" }

func (s FlatK) Changes(m Match) []Change {
	diff1, diff2, ok := expectations(m)
	if !ok {
		return nil
	}
	out := make([]Change, 0, len(m.Team1)+len(m.Team2))
	for _, team := range []struct {
		players []Player
		diff    float64
	}{{m.Team1, diff1}, {m.Team2, diff2}} {
		base := s.K * team.diff
		for _, p := range team.players {
			d := base
			if p.IsGuest {
				d *= s.GuestMultiplier
			}
			out = append(out, change(p, d))
		}
	}
	return out
}

// DynamicK picks K from each player's attributes.
type DynamicK struct{}

func (DynamicK) Name() string { return "dynamic_k" }

// KFor returns the K factor for p. Order matters: coach beats guest beats tournament.
func (DynamicK) KFor(p Player, tournament bool) float64 {
	switch {
	case p.Role == "coach":
		return 0
	case p.IsGuest:
		return 80
	case tournament:
		return 40
	case p.GamesPlayed < 10:
		return 64
	case p.GamesPlayed >= 100 && p.Rating > 1800:
		return 20
	}
	return 32
}

func (s DynamicK) Changes(m Match) []Change {
	diff1, diff2, ok := expectations(m)
	if !ok {
		return nil
	}
	out := make([]Change, 0, len(m.Team1)+len(m.Team2))
	for _, p := range m.Team1 {
		out = append(out, change(p, s.KFor(p, m.Tournament)*diff1))
	}
	for _, p := range m.Team2 {
		out = append(out, change(p, s.KFor(p, m.Tournament)*diff2))
	}
	return out
}

// NonZero drops changes that would not move a rating; those are never persisted.
func NonZero(changes []Change) []Change {
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		if c.Delta != 0 {
			out = append(out, c)
		}
	}
	return out
}

// Invert returns the compensating changes that undo changes.
func Invert(changes []Change) []Change {
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		out = append(out, Change{PlayerID: c.PlayerID, Before: c.After, Delta: -c.Delta, After: c.Before})
	}
	return out
}
