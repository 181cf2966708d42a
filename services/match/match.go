// Package match ranks catalog records against a target (title, artist) pair.
// It is pure: no I/O, no state, deterministic for a given input order.
package match

import "strings"

// Score weights. Artist identity dominates: a candidate whose artist doesn't
// relate to a non-empty target artist is disqualified no matter how good the
// title looks.
const (
	scoreArtistExact    = 100
	scoreArtistContains = 80
	scoreNoArtistBase   = 50

	scoreTitleExact    = 100
	scoreTitlePrefix   = 80
	scoreTitleContains = 50
)

// Query is the immutable target being matched against.
type Query struct {
	Title  string
	Artist string
}

// Candidate is a catalog record as seen by the scorer. Each backend's record
// type decides how its raw title/artist fields map onto these (iTunes exposes
// a single artist string, JioSaavn a structured primary-artist list with a
// comma-separated fallback).
type Candidate interface {
	// MatchTitle returns the record's raw display title.
	MatchTitle() string

	// MatchArtists returns the record's artist names in source order.
	MatchArtists() []string
}

// Result holds the best candidate and its score. Candidate is non-nil iff
// Score > 0.
type Result struct {
	Candidate Candidate
	Score     int
}

// Matched reports whether a usable candidate was found.
func (r Result) Matched() bool {
	return r.Candidate != nil
}

// Best scores every candidate against target and returns the highest scorer.
// Nil entries are skipped. A candidate only replaces the running best on a
// strictly greater score, so ties keep the earliest-encountered candidate.
func Best(candidates []Candidate, target Query) Result {
	tTitle := Normalize(target.Title)
	tArtist := Normalize(target.Artist)

	best := Result{}

	for _, c := range candidates {
		if c == nil {
			continue
		}

		score := scoreCandidate(c, tTitle, tArtist)

		if score > best.Score {
			best.Score = score
			best.Candidate = c
		}
	}

	if best.Score == 0 {
		// Never hand back a candidate that failed every heuristic
		best.Candidate = nil
	}

	return best
}

func scoreCandidate(c Candidate, tTitle, tArtist string) int {
	score := 0

	if tArtist != "" {
		// Artist gate: first exact match wins, then first bidirectional
		// substring match; no relation at all disqualifies the candidate.
		matched := false

		for _, raw := range c.MatchArtists() {
			rArtist := Normalize(raw)

			if rArtist == tArtist {
				score += scoreArtistExact
				matched = true
				break
			}

			if rArtist != "" && (strings.Contains(rArtist, tArtist) || strings.Contains(tArtist, rArtist)) {
				score += scoreArtistContains
				matched = true
				break
			}
		}

		if !matched {
			return 0
		}
	} else {
		// Title-only query: trust boost so title heuristics alone can win
		score += scoreNoArtistBase
	}

	rTitle := Normalize(c.MatchTitle())

	switch {
	case rTitle == tTitle:
		score += scoreTitleExact
	case rTitle == "" || tTitle == "":
		// Empty strings trivially satisfy the relations below; no bonus
	case strings.HasPrefix(rTitle, tTitle) || strings.HasPrefix(tTitle, rTitle):
		score += scoreTitlePrefix
	case strings.Contains(rTitle, tTitle) || strings.Contains(tTitle, rTitle):
		score += scoreTitleContains
	}

	return score
}
