// Package saavn is a thin client for the JioSaavn search API (the alternate
// catalog).
package saavn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dselans/songbridge-api/util"
)

type ISaavn interface {
	SearchSongs(ctx context.Context, query string) ([]Song, error)
}

type Saavn struct {
	opts *Options
	log  *zap.Logger
}

type Options struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	Log       *zap.Logger
}

// Song is a JioSaavn song record. The upstream schema is not stable (two
// generations of field names are in the wild), so both shapes are mapped and
// the original payload is retained verbatim: consumers forward the record
// as-is, and re-serializing only the mapped fields would lose data.
type Song struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Title          string  `json:"title"`
	Artists        Artists `json:"artists"`
	PrimaryArtists string  `json:"primary_artists"`

	raw json.RawMessage
}

type Artists struct {
	Primary []Artist `json:"primary"`
}

type Artist struct {
	Name string `json:"name"`
}

func (s *Song) UnmarshalJSON(data []byte) error {
	type alias Song

	a := alias{}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	*s = Song(a)
	s.raw = append(json.RawMessage(nil), data...)

	return nil
}

// MarshalJSON emits the record exactly as it arrived from upstream.
func (s Song) MarshalJSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}

	type alias Song

	return json.Marshal(alias(s))
}

// MatchTitle satisfies match.Candidate; newer payloads use "name", older ones
// "title".
func (s Song) MatchTitle() string {
	if s.Name != "" {
		return s.Name
	}

	return s.Title
}

// MatchArtists satisfies match.Candidate; prefers the structured primary
// artist list, falling back to the legacy comma-separated field.
func (s Song) MatchArtists() []string {
	if len(s.Artists.Primary) > 0 {
		names := make([]string, 0, len(s.Artists.Primary))
		for _, a := range s.Artists.Primary {
			names = append(names, a.Name)
		}

		return names
	}

	if s.PrimaryArtists != "" {
		return strings.Split(s.PrimaryArtists, ",")
	}

	return nil
}

type searchResponse struct {
	Data struct {
		Results []Song `json:"results"`
	} `json:"data"`
}

func New(opts *Options) (*Saavn, error) {
	if err := validateOptions(opts); err != nil {
		return nil, errors.Wrap(err, "failed to validate options")
	}

	return &Saavn{
		opts: opts,
		log:  opts.Log.With(zap.String("pkg", "saavn")),
	}, nil
}

func validateOptions(opts *Options) error {
	if opts == nil {
		return errors.New("options cannot be nil")
	}

	if opts.BaseURL == "" {
		return errors.New("base URL cannot be empty")
	}

	if opts.Client == nil {
		return errors.New("client cannot be nil")
	}

	if opts.Log == nil {
		return errors.New("log cannot be nil")
	}

	return nil
}

// SearchSongs runs a song search and returns the raw ranked results.
func (s *Saavn) SearchSongs(ctx context.Context, query string) ([]Song, error) {
	logger := s.log.With(zap.String("method", "SearchSongs"))
	logger.Debug("searching JioSaavn", zap.String("query", query))

	endpoint := fmt.Sprintf("%s/api/search/songs?query=%s",
		s.opts.BaseURL, url.QueryEscape(query))

	resp := &searchResponse{}

	if _, err := util.DoHTTPGet(ctx, s.opts.Client, endpoint, resp, http.Header{
		"User-Agent": []string{s.opts.UserAgent},
	}); err != nil {
		return nil, errors.Wrap(err, "jiosaavn search request failed")
	}

	logger.Debug("JioSaavn search complete", zap.Int("results", len(resp.Data.Results)))

	return resp.Data.Results, nil
}
