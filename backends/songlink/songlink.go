// Package songlink is a thin client for the song.link link-aggregation API
// (the cross-reference service).
package songlink

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dselans/songbridge-api/util"
)

type ISongLink interface {
	Links(ctx context.Context, itunesID string) (*LinksResponse, error)
}

type SongLink struct {
	opts *Options
	log  *zap.Logger
}

type Options struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	Log       *zap.Logger
}

// LinksResponse is the subset of the song.link payload the pipeline reads.
type LinksResponse struct {
	LinksByPlatform map[string]PlatformLink `json:"linksByPlatform"`
}

type PlatformLink struct {
	URL string `json:"url"`
}

// SpotifyURL returns the Spotify link, or "" when the platform entry is
// absent.
func (l *LinksResponse) SpotifyURL() string {
	if l == nil {
		return ""
	}

	return l.LinksByPlatform["spotify"].URL
}

func New(opts *Options) (*SongLink, error) {
	if err := validateOptions(opts); err != nil {
		return nil, errors.Wrap(err, "failed to validate options")
	}

	return &SongLink{
		opts: opts,
		log:  opts.Log.With(zap.String("pkg", "songlink")),
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

// Links fetches the platform-link map for an iTunes track identifier.
func (s *SongLink) Links(ctx context.Context, itunesID string) (*LinksResponse, error) {
	logger := s.log.With(zap.String("method", "Links"))
	logger.Debug("fetching song.link entry", zap.String("itunesId", itunesID))

	endpoint := fmt.Sprintf("%s/v1-alpha.1/links?itunesId=%s",
		s.opts.BaseURL, url.QueryEscape(itunesID))

	resp := &LinksResponse{}

	if _, err := util.DoHTTPGet(ctx, s.opts.Client, endpoint, resp, http.Header{
		"User-Agent": []string{s.opts.UserAgent},
	}); err != nil {
		return nil, errors.Wrap(err, "song.link request failed")
	}

	return resp, nil
}
