package altcatalog

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dselans/songbridge-api/backends/saavn"
)

type stubSaavn struct {
	songs   []saavn.Song
	err     error
	queries []string
}

func (s *stubSaavn) SearchSongs(_ context.Context, query string) ([]saavn.Song, error) {
	s.queries = append(s.queries, query)

	if s.err != nil {
		return nil, s.err
	}

	return s.songs, nil
}

func newTestService(t *testing.T, backend *stubSaavn) *AltCatalog {
	t.Helper()

	svc, err := New(&Options{
		Backend: backend,
		Log:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("unable to create altcatalog service: %s", err)
	}

	return svc
}

func TestCleanTitle(t *testing.T) {
	g := NewWithT(t)

	cases := []struct {
		input    string
		expected string
	}{
		{`Tum Hi Ho (From "Aashiqui 2")`, "Tum Hi Ho"},
		{`Kesariya [From "Brahmastra"]`, "Kesariya"},
		{"Blinding Lights (Original Motion Picture Soundtrack)", "Blinding Lights"},
		{"Blinding Lights - Single", "Blinding Lights"},
		{"Levitating - EP", "Levitating"},
		{"blinding lights - single", "blinding lights"},
		{"No Noise Here", "No Noise Here"},
		{"", ""},
	}

	for _, tc := range cases {
		g.Expect(CleanTitle(tc.input)).To(Equal(tc.expected), tc.input)
	}
}

func TestFindBestCleansQueryTitle(t *testing.T) {
	g := NewWithT(t)

	backend := &stubSaavn{}
	svc := newTestService(t, backend)

	_, err := svc.FindBest(context.Background(), "Tum Hi Ho (From \"Aashiqui 2\") - Single", "Arijit Singh")

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(backend.queries).To(HaveLen(1))
	g.Expect(backend.queries[0]).To(Equal("Tum Hi Ho Arijit Singh"))
}

func TestFindBestPicksScorerBest(t *testing.T) {
	g := NewWithT(t)

	backend := &stubSaavn{
		songs: []saavn.Song{
			{ID: "s1", Name: "Blinding Lights (Cover)", Artists: saavn.Artists{Primary: []saavn.Artist{{Name: "Somebody Else"}}}},
			{ID: "s2", Name: "Blinding Lights", Artists: saavn.Artists{Primary: []saavn.Artist{{Name: "The Weeknd"}}}},
		},
	}
	svc := newTestService(t, backend)

	song, err := svc.FindBest(context.Background(), "Blinding Lights", "The Weeknd")

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(song).ToNot(BeNil())
	g.Expect(song.ID).To(Equal("s2"))
}

func TestFindBestFallsBackToCommaSeparatedArtists(t *testing.T) {
	g := NewWithT(t)

	backend := &stubSaavn{
		songs: []saavn.Song{
			{ID: "s1", Title: "Blinding Lights", PrimaryArtists: "The Weeknd, Max Martin"},
		},
	}
	svc := newTestService(t, backend)

	song, err := svc.FindBest(context.Background(), "Blinding Lights", "The Weeknd")

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(song).ToNot(BeNil())
	g.Expect(song.ID).To(Equal("s1"))
}

func TestFindBestNoMatch(t *testing.T) {
	g := NewWithT(t)

	backend := &stubSaavn{
		songs: []saavn.Song{
			{ID: "s1", Name: "Unrelated", Artists: saavn.Artists{Primary: []saavn.Artist{{Name: "Nobody"}}}},
		},
	}
	svc := newTestService(t, backend)

	song, err := svc.FindBest(context.Background(), "Blinding Lights", "The Weeknd")

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(song).To(BeNil())
}

func TestFindBestBackendError(t *testing.T) {
	g := NewWithT(t)

	backend := &stubSaavn{err: errors.New("upstream exploded")}
	svc := newTestService(t, backend)

	song, err := svc.FindBest(context.Background(), "Blinding Lights", "The Weeknd")

	g.Expect(err).To(HaveOccurred())
	g.Expect(song).To(BeNil())
}
