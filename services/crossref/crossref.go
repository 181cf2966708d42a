// Package crossref resolves a primary-catalog track identifier to its
// Spotify URL via the song.link aggregation service.
package crossref

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dselans/songbridge-api/backends/songlink"
	"github.com/dselans/songbridge-api/validate"
)

type ICrossRef interface {
	Resolve(ctx context.Context, itunesID string) (string, error)
}

type CrossRef struct {
	opts *Options
	log  *zap.Logger
}

type Options struct {
	Backend songlink.ISongLink
	Log     *zap.Logger
}

func New(opts *Options) (*CrossRef, error) {
	if err := validateOptions(opts); err != nil {
		return nil, errors.Wrap(err, "failed to validate options")
	}

	return &CrossRef{
		opts: opts,
		log:  opts.Log.With(zap.String("pkg", "crossref")),
	}, nil
}

func validateOptions(opts *Options) error {
	if opts == nil {
		return errors.New("options cannot be nil")
	}

	if opts.Backend == nil {
		return errors.New("backend cannot be nil")
	}

	if opts.Log == nil {
		return errors.New("log cannot be nil")
	}

	return nil
}

// Resolve returns the Spotify URL for an iTunes track id, or "" when the
// aggregation service has no Spotify entry for it. Transport and decode
// failures are returned as errors; the orchestrator decides whether they
// degrade or escalate.
func (c *CrossRef) Resolve(ctx context.Context, itunesID string) (string, error) {
	if err := validate.AdamID(itunesID); err != nil {
		return "", errors.Wrap(err, "invalid itunes id")
	}

	links, err := c.opts.Backend.Links(ctx, itunesID)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch platform links")
	}

	url := links.SpotifyURL()
	if url == "" {
		c.log.Debug("no spotify entry for track", zap.String("itunesId", itunesID))
	}

	return url, nil
}
