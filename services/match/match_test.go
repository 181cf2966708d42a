package match_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dselans/songbridge-api/services/match"
)

type testCandidate struct {
	title   string
	artists []string
}

func (c testCandidate) MatchTitle() string {
	return c.title
}

func (c testCandidate) MatchArtists() []string {
	return c.artists
}

func candidates(cs ...match.Candidate) []match.Candidate {
	return cs
}

var _ = Describe("Best", func() {
	var target match.Query

	BeforeEach(func() {
		target = match.Query{Title: "Blinding Lights", Artist: "The Weeknd"}
	})

	Context("artist gate", func() {
		It("awards at least 100 for an exact normalized artist match regardless of title", func() {
			c := testCandidate{title: "Totally Unrelated", artists: []string{"the weeknd"}}

			result := match.Best(candidates(c), target)

			Expect(result.Matched()).To(BeTrue())
			Expect(result.Score).To(BeNumerically(">=", 100))
		})

		It("disqualifies a candidate whose artist does not match, even with an identical title", func() {
			c := testCandidate{title: "Blinding Lights", artists: []string{"Dua Lipa"}}

			result := match.Best(candidates(c), target)

			Expect(result.Matched()).To(BeFalse())
			Expect(result.Score).To(Equal(0))
			Expect(result.Candidate).To(BeNil())
		})

		It("awards 80 for a bidirectional substring artist match", func() {
			c := testCandidate{title: "zzz", artists: []string{"The Weeknd & Friends"}}

			result := match.Best(candidates(c), target)

			Expect(result.Matched()).To(BeTrue())
			Expect(result.Score).To(Equal(80))
		})

		It("stops scanning artists at the first exact match", func() {
			c := testCandidate{
				title:   "zzz",
				artists: []string{"The Weeknd Trio", "The Weeknd"},
			}

			// First name is a substring relation (80); the scan stops there
			// and never reaches the exact match.
			result := match.Best(candidates(c), target)

			Expect(result.Score).To(Equal(80))
		})
	})

	Context("title-only queries", func() {
		BeforeEach(func() {
			target.Artist = ""
		})

		It("gives every candidate a 50 point floor", func() {
			c := testCandidate{title: "Nothing In Common", artists: []string{"Somebody"}}

			result := match.Best(candidates(c), target)

			Expect(result.Matched()).To(BeTrue())
			Expect(result.Score).To(Equal(50))
		})

		It("adds the title bonus on top of the floor", func() {
			c := testCandidate{title: "Blinding Lights", artists: nil}

			result := match.Best(candidates(c), target)

			Expect(result.Score).To(Equal(150))
		})
	})

	Context("title scoring", func() {
		It("prefers exact over prefix over containment", func() {
			exact := testCandidate{title: "Blinding Lights", artists: []string{"The Weeknd"}}
			prefix := testCandidate{title: "Blinding Lights (Remix)", artists: []string{"The Weeknd"}}
			contains := testCandidate{title: "Lights", artists: []string{"The Weeknd"}}

			Expect(match.Best(candidates(exact), target).Score).To(Equal(200))
			Expect(match.Best(candidates(prefix), target).Score).To(Equal(180))
			Expect(match.Best(candidates(contains), target).Score).To(Equal(150))
		})

		It("treats prefix relations bidirectionally", func() {
			// Target title is a prefix of the candidate and vice versa
			shorter := testCandidate{title: "Blinding", artists: []string{"The Weeknd"}}

			Expect(match.Best(candidates(shorter), target).Score).To(Equal(180))
		})
	})

	Context("selection", func() {
		It("keeps the earliest candidate on a tie", func() {
			// Both candidates reach 180 (exact artist + prefix title)
			first := testCandidate{title: "Blinding Lights (Remix)", artists: []string{"The Weeknd"}}
			second := testCandidate{title: "Blinding", artists: []string{"The Weeknd"}}

			result := match.Best(candidates(first, second), target)

			Expect(result.Score).To(Equal(180))
			Expect(result.Candidate).To(Equal(match.Candidate(first)))
		})

		It("replaces the best only on a strictly greater score", func() {
			weak := testCandidate{title: "Lights", artists: []string{"The Weeknd"}}
			strong := testCandidate{title: "Blinding Lights", artists: []string{"The Weeknd"}}

			result := match.Best(candidates(weak, strong), target)

			Expect(result.Candidate).To(Equal(match.Candidate(strong)))
			Expect(result.Score).To(Equal(200))
		})

		It("returns no match for an empty candidate list", func() {
			Expect(match.Best(nil, target).Matched()).To(BeFalse())
			Expect(match.Best([]match.Candidate{}, target).Matched()).To(BeFalse())
		})

		It("skips nil candidates", func() {
			c := testCandidate{title: "Blinding Lights", artists: []string{"The Weeknd"}}

			result := match.Best([]match.Candidate{nil, c, nil}, target)

			Expect(result.Matched()).To(BeTrue())
			Expect(result.Candidate).To(Equal(match.Candidate(c)))
		})
	})
})
