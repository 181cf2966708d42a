package saavn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func newTestBackend(t *testing.T, baseURL string) *Saavn {
	t.Helper()

	backend, err := New(&Options{
		BaseURL:   baseURL,
		UserAgent: "test-agent",
		Client:    &http.Client{},
		Log:       zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("unable to create saavn backend: %s", err)
	}

	return backend
}

func TestSearchSongs(t *testing.T) {
	g := NewWithT(t)

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		g.Expect(r.URL.Path).To(Equal("/api/search/songs"))
		g.Expect(r.URL.Query().Get("query")).To(Equal("Tum Hi Ho Arijit Singh"))
		g.Expect(r.Header.Get("User-Agent")).To(Equal("test-agent"))

		rw.Header().Set("Content-Type", "application/json")
		rw.Write([]byte(`{
			"data": {
				"results": [
					{
						"id": "DmClhpXM",
						"name": "Tum Hi Ho",
						"artists": {"primary": [{"name": "Arijit Singh"}, {"name": "Mithoon"}]},
						"playCount": 12345,
						"downloadUrl": [{"quality": "320kbps", "url": "https://example.invalid/a.mp4"}]
					}
				]
			}
		}`))
	}))
	defer server.Close()

	backend := newTestBackend(t, server.URL)

	songs, err := backend.SearchSongs(context.Background(), "Tum Hi Ho Arijit Singh")

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(songs).To(HaveLen(1))
	g.Expect(songs[0].ID).To(Equal("DmClhpXM"))
	g.Expect(songs[0].MatchTitle()).To(Equal("Tum Hi Ho"))
	g.Expect(songs[0].MatchArtists()).To(Equal([]string{"Arijit Singh", "Mithoon"}))
}

func TestSearchSongsNon200(t *testing.T) {
	g := NewWithT(t)

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	backend := newTestBackend(t, server.URL)

	songs, err := backend.SearchSongs(context.Background(), "anything")

	g.Expect(err).To(HaveOccurred())
	g.Expect(songs).To(BeNil())
}

func TestSongRoundTripPreservesUnmappedFields(t *testing.T) {
	g := NewWithT(t)

	payload := `{"id":"abc","name":"Tum Hi Ho","playCount":777,"image":[{"quality":"500x500","url":"https://example.invalid/i.jpg"}]}`

	song := Song{}
	g.Expect(json.Unmarshal([]byte(payload), &song)).To(Succeed())

	out, err := json.Marshal(song)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(out)).To(MatchJSON(payload))
}

func TestSongCandidateFallbacks(t *testing.T) {
	g := NewWithT(t)

	legacy := Song{Title: "Tum Hi Ho", PrimaryArtists: "Arijit Singh, Mithoon"}

	g.Expect(legacy.MatchTitle()).To(Equal("Tum Hi Ho"))
	g.Expect(legacy.MatchArtists()).To(Equal([]string{"Arijit Singh", " Mithoon"}))

	empty := Song{}

	g.Expect(empty.MatchTitle()).To(Equal(""))
	g.Expect(empty.MatchArtists()).To(BeNil())
}
