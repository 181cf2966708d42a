// Package aggregate runs the search pipeline: resolve the seed track on the
// primary catalog, fan out to the cross-reference, alternate-catalog and
// recommendation collaborators, expand a bounded number of recommended items
// the same way, and assemble the unified response.
package aggregate

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dselans/songbridge-api/backends/itunes"
	"github.com/dselans/songbridge-api/backends/saavn"
	"github.com/dselans/songbridge-api/services/altcatalog"
	"github.com/dselans/songbridge-api/services/crossref"
	"github.com/dselans/songbridge-api/services/match"
	"github.com/dselans/songbridge-api/services/recommend"
)

// ErrSeedNotFound is returned when the primary catalog has no record relating
// to the query; the API layer maps it to a 404.
var ErrSeedNotFound = errors.New("song not found on iTunes")

// Recommended item titles often carry an " - Album" style suffix plus a
// "(From ...)" qualifier; both are stripped before querying the alternate
// catalog with an artist-less (title-only) search.
var fromQualifierRE = regexp.MustCompile(`(?i)\(from.*?\)`)

type IAggregate interface {
	Search(ctx context.Context, song, artist string) (*Response, error)
}

type Aggregate struct {
	opts *Options
	log  *zap.Logger
}

type Options struct {
	ITunesBackend itunes.IITunes
	CrossRef      crossref.ICrossRef
	AltCatalog    altcatalog.IAltCatalog
	Recommend     recommend.IRecommend

	// ExpandLimit bounds how many recommendation items are expanded per list.
	// It is the pipeline's only latency control: branches are never cancelled
	// once launched.
	ExpandLimit int

	Log *zap.Logger
}

type Response struct {
	Success         bool           `json:"success"`
	CurrentSong     CurrentSong    `json:"current_song"`
	MoreFromArtist  []RelatedTrack `json:"more_from_artist"`
	Recommendations []RelatedTrack `json:"recommendations"`
}

type CurrentSong struct {
	Title        string      `json:"title"`
	Artist       string      `json:"artist"`
	AppleID      int64       `json:"apple_id"`
	SpotifyURL   *string     `json:"spotify_url"`
	JioSaavnData *saavn.Song `json:"jiosaavn_data"`
}

type RelatedTrack struct {
	Title        string      `json:"title"`
	AppleID      string      `json:"apple_id"`
	SpotifyURL   *string     `json:"spotify_url"`
	JioSaavnData *saavn.Song `json:"jiosaavn_data"`
}

func New(opts *Options) (*Aggregate, error) {
	if err := validateOptions(opts); err != nil {
		return nil, errors.Wrap(err, "failed to validate options")
	}

	return &Aggregate{
		opts: opts,
		log:  opts.Log.With(zap.String("pkg", "aggregate")),
	}, nil
}

func validateOptions(opts *Options) error {
	if opts == nil {
		return errors.New("options cannot be nil")
	}

	if opts.ITunesBackend == nil {
		return errors.New("itunes backend cannot be nil")
	}

	if opts.CrossRef == nil {
		return errors.New("crossref service cannot be nil")
	}

	if opts.AltCatalog == nil {
		return errors.New("altcatalog service cannot be nil")
	}

	if opts.Recommend == nil {
		return errors.New("recommend service cannot be nil")
	}

	if opts.ExpandLimit < 1 {
		return errors.New("expand limit must be at least 1")
	}

	if opts.Log == nil {
		return errors.New("log cannot be nil")
	}

	return nil
}

// Search runs the full pipeline for one query. Only the seed lookup's
// transport failure escalates to the caller; every later collaborator failure
// degrades to an absent field or a dropped item.
func (a *Aggregate) Search(ctx context.Context, song, artist string) (*Response, error) {
	logger := a.log.With(
		zap.String("method", "Search"),
		zap.String("song", song),
		zap.String("artist", artist))

	// Seed resolve
	tracks, err := a.opts.ITunesBackend.SearchSongs(ctx, song+" "+artist)
	if err != nil {
		return nil, errors.Wrap(err, "seed lookup failed")
	}

	candidates := make([]match.Candidate, 0, len(tracks))
	for _, t := range tracks {
		candidates = append(candidates, t)
	}

	result := match.Best(candidates, match.Query{Title: song, Artist: artist})
	if !result.Matched() {
		logger.Debug("no seed match", zap.Int("results", len(tracks)))
		return nil, ErrSeedNotFound
	}

	seed := result.Candidate.(itunes.Track)
	seedID := strconv.FormatInt(seed.TrackID, 10)

	logger.Debug("seed resolved",
		zap.String("trackId", seedID),
		zap.Int("score", result.Score))

	// Fan out to the three independent collaborators. Branches absorb their
	// own failures so none can fail or cancel a sibling.
	var (
		spotifyURL string
		seedMatch  *saavn.Song
		lists      *recommend.Lists
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := a.opts.CrossRef.Resolve(gctx, seedID)
		if err != nil {
			logger.Warn("seed cross-reference resolution failed", zap.Error(err))
			return nil
		}

		spotifyURL = u

		return nil
	})

	g.Go(func() error {
		m, err := a.opts.AltCatalog.FindBest(gctx, song, artist)
		if err != nil {
			logger.Warn("seed alternate catalog lookup failed", zap.Error(err))
			return nil
		}

		seedMatch = m

		return nil
	})

	g.Go(func() error {
		l, err := a.opts.Recommend.Extract(gctx, seed.TrackViewURL)
		if err != nil {
			logger.Warn("recommendation extraction failed", zap.Error(err))
			return nil
		}

		lists = l

		return nil
	})

	_ = g.Wait()

	if lists == nil {
		lists = &recommend.Lists{}
	}

	// Expand both lists; they are independent of each other
	var moreFromArtist, recommendations []RelatedTrack

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		moreFromArtist = a.expand(egctx, lists.MoreFromArtist, logger)
		return nil
	})

	eg.Go(func() error {
		recommendations = a.expand(egctx, lists.Recommended, logger)
		return nil
	})

	_ = eg.Wait()

	return &Response{
		Success: true,
		CurrentSong: CurrentSong{
			Title:        seed.TrackName,
			Artist:       seed.ArtistName,
			AppleID:      seed.TrackID,
			SpotifyURL:   nullableURL(spotifyURL),
			JioSaavnData: seedMatch,
		},
		MoreFromArtist:  moreFromArtist,
		Recommendations: recommendations,
	}, nil
}

// expand resolves the first ExpandLimit items of a recommendation list
// concurrently. Items without an alternate-catalog match are dropped;
// surviving items keep their document order.
func (a *Aggregate) expand(ctx context.Context, items []recommend.Item, logger *zap.Logger) []RelatedTrack {
	if len(items) > a.opts.ExpandLimit {
		items = items[:a.opts.ExpandLimit]
	}

	// Index-addressed slots so concurrent completion order can't reorder the
	// output
	slots := make([]*RelatedTrack, len(items))

	g, gctx := errgroup.WithContext(ctx)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			slots[i] = a.resolveItem(gctx, item, logger)
			return nil
		})
	}

	_ = g.Wait()

	expanded := make([]RelatedTrack, 0, len(items))

	for _, t := range slots {
		if t != nil {
			expanded = append(expanded, *t)
		}
	}

	return expanded
}

// resolveItem correlates one recommendation item across the alternate catalog
// and the cross-reference service. Returns nil when the item has no alternate
// catalog match; such items are silently omitted from the response.
func (a *Aggregate) resolveItem(ctx context.Context, item recommend.Item, logger *zap.Logger) *RelatedTrack {
	var (
		altMatch   *saavn.Song
		spotifyURL string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Empty artist switches the scorer into title-only matching
		m, err := a.opts.AltCatalog.FindBest(gctx, cleanItemTitle(item.Title), "")
		if err != nil {
			logger.Warn("item alternate catalog lookup failed",
				zap.String("title", item.Title),
				zap.Error(err))

			return nil
		}

		altMatch = m

		return nil
	})

	g.Go(func() error {
		u, err := a.opts.CrossRef.Resolve(gctx, item.ID)
		if err != nil {
			logger.Warn("item cross-reference resolution failed",
				zap.String("adamId", item.ID),
				zap.Error(err))

			return nil
		}

		spotifyURL = u

		return nil
	})

	_ = g.Wait()

	if altMatch == nil {
		return nil
	}

	return &RelatedTrack{
		Title:        item.Title,
		AppleID:      item.ID,
		SpotifyURL:   nullableURL(spotifyURL),
		JioSaavnData: altMatch,
	}
}

func cleanItemTitle(title string) string {
	title, _, _ = strings.Cut(title, " - ")
	title = fromQualifierRE.ReplaceAllString(title, "")

	return strings.TrimSpace(title)
}

func nullableURL(u string) *string {
	if u == "" {
		return nil
	}

	return &u
}
