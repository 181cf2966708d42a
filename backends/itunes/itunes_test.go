package itunes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func newTestBackend(t *testing.T, baseURL string) *ITunes {
	t.Helper()

	backend, err := New(&Options{
		BaseURL:     baseURL,
		SearchLimit: 15,
		UserAgent:   "test-agent",
		Client:      &http.Client{},
		Log:         zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("unable to create itunes backend: %s", err)
	}

	return backend
}

func TestSearchSongs(t *testing.T) {
	g := NewWithT(t)

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		g.Expect(r.URL.Path).To(Equal("/search"))
		g.Expect(r.URL.Query().Get("term")).To(Equal("Blinding Lights The Weeknd"))
		g.Expect(r.URL.Query().Get("entity")).To(Equal("song"))
		g.Expect(r.URL.Query().Get("limit")).To(Equal("15"))
		g.Expect(r.Header.Get("User-Agent")).To(Equal("test-agent"))

		rw.Header().Set("Content-Type", "application/json")
		rw.Write([]byte(`{
			"resultCount": 1,
			"results": [
				{
					"trackId": 1488408568,
					"trackName": "Blinding Lights",
					"artistName": "The Weeknd",
					"trackViewUrl": "https://music.apple.com/us/album/blinding-lights/1488408555?i=1488408568",
					"collectionName": "After Hours"
				}
			]
		}`))
	}))
	defer server.Close()

	backend := newTestBackend(t, server.URL)

	tracks, err := backend.SearchSongs(context.Background(), "Blinding Lights The Weeknd")

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(tracks).To(Equal([]Track{
		{
			TrackID:      1488408568,
			TrackName:    "Blinding Lights",
			ArtistName:   "The Weeknd",
			TrackViewURL: "https://music.apple.com/us/album/blinding-lights/1488408555?i=1488408568",
		},
	}))
}

func TestSearchSongsNon200(t *testing.T) {
	g := NewWithT(t)

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	backend := newTestBackend(t, server.URL)

	tracks, err := backend.SearchSongs(context.Background(), "anything")

	g.Expect(err).To(HaveOccurred())
	g.Expect(tracks).To(BeNil())
}

func TestTrackCandidate(t *testing.T) {
	g := NewWithT(t)

	track := Track{TrackName: "Blinding Lights", ArtistName: "The Weeknd"}

	g.Expect(track.MatchTitle()).To(Equal("Blinding Lights"))
	g.Expect(track.MatchArtists()).To(Equal([]string{"The Weeknd"}))
}
