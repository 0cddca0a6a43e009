// Package priority ranks waiting-queue players. Higher scores are served first.
package priority

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	InitialBoost      = 5000
	WaitPerMinute     = 200
	GamePenaltyFactor = 500
	GuestBonus        = 3000
	VIPGuestBonus     = 999999
	VIPRatingFloor    = 2000
	DepartureBonus    = 8000
	DepartureWindow   = 40 * time.Minute
)

// Candidate is one queued player as seen by the scorer.
type Candidate struct {
	JoinedAt         time.Time
	DepartureTime    string // HH:MM in the venue's local time, may be empty
	GamesPlayedToday int
	IsGuest          bool
	BestRating       int
}

// Score computes the priority of c at now. It never fails: unusable inputs count as zero.
// now's location is the venue's local time used to interpret DepartureTime.
func Score(c Candidate, now time.Time) int {
	waitMinutes := 0.0
	if !c.JoinedAt.IsZero() {
		waitMinutes = now.Sub(c.JoinedAt).Minutes()
	}
	if math.IsNaN(waitMinutes) || math.IsInf(waitMinutes, 0) {
		waitMinutes = 0
	}

	games := c.GamesPlayedToday
	if games < 0 {
		games = 0
	}

	total := waitMinutes * WaitPerMinute
	if games == 0 {
		total += InitialBoost
	}
	total -= float64(games*games) * GamePenaltyFactor

	if c.IsGuest {
		if c.BestRating >= VIPRatingFloor {
			total += VIPGuestBonus
		} else {
			total += GuestBonus
		}
	}

	if leavingSoon(c.DepartureTime, now) {
		total += DepartureBonus
	}

	if math.IsNaN(total) {
		return 0
	}
	return int(math.Round(total))
}

// leavingSoon reports whether the departure time falls 0..40 minutes after now.
func leavingSoon(departure string, now time.Time) bool {
	h, m, ok := ParseClock(departure)
	if !ok {
		return false
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if now.Sub(target) > 12*time.Hour {
		target = target.AddDate(0, 0, 1)
	}
	until := target.Sub(now)
	return until >= 0 && until <= DepartureWindow
}

// ParseClock parses "HH:MM" (24h). Empty or malformed input reports ok=false.
func ParseClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
