// Package itunes is a thin client for the iTunes search API (the primary
// catalog).
package itunes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dselans/songbridge-api/util"
)

type IITunes interface {
	SearchSongs(ctx context.Context, term string) ([]Track, error)
}

type ITunes struct {
	opts *Options
	log  *zap.Logger
}

type Options struct {
	BaseURL     string
	SearchLimit int
	UserAgent   string
	Client      *http.Client
	Log         *zap.Logger
}

// Track is a raw iTunes song record. Only the fields the pipeline reads are
// mapped; everything else is dropped at decode time.
type Track struct {
	TrackID      int64  `json:"trackId"`
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	TrackViewURL string `json:"trackViewUrl"`
}

// MatchTitle satisfies match.Candidate.
func (t Track) MatchTitle() string {
	return t.TrackName
}

// MatchArtists satisfies match.Candidate; iTunes carries a single artist
// string per track.
func (t Track) MatchArtists() []string {
	return []string{t.ArtistName}
}

type searchResponse struct {
	ResultCount int     `json:"resultCount"`
	Results     []Track `json:"results"`
}

func New(opts *Options) (*ITunes, error) {
	if err := validateOptions(opts); err != nil {
		return nil, errors.Wrap(err, "failed to validate options")
	}

	return &ITunes{
		opts: opts,
		log:  opts.Log.With(zap.String("pkg", "itunes")),
	}, nil
}

func validateOptions(opts *Options) error {
	if opts == nil {
		return errors.New("options cannot be nil")
	}

	if opts.BaseURL == "" {
		return errors.New("base URL cannot be empty")
	}

	if opts.SearchLimit < 1 {
		return errors.New("search limit must be at least 1")
	}

	if opts.Client == nil {
		return errors.New("client cannot be nil")
	}

	if opts.Log == nil {
		return errors.New("log cannot be nil")
	}

	return nil
}

// SearchSongs runs a song-entity search and returns the raw ranked results.
func (i *ITunes) SearchSongs(ctx context.Context, term string) ([]Track, error) {
	logger := i.log.With(zap.String("method", "SearchSongs"))
	logger.Debug("searching iTunes", zap.String("term", term))

	endpoint := fmt.Sprintf("%s/search?term=%s&entity=song&limit=%d",
		i.opts.BaseURL, url.QueryEscape(term), i.opts.SearchLimit)

	resp := &searchResponse{}

	if _, err := util.DoHTTPGet(ctx, i.opts.Client, endpoint, resp, http.Header{
		"User-Agent": []string{i.opts.UserAgent},
	}); err != nil {
		return nil, errors.Wrap(err, "itunes search request failed")
	}

	logger.Debug("iTunes search complete", zap.Int("results", len(resp.Results)))

	return resp.Results, nil
}
