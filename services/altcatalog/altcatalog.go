// Package altcatalog finds the best JioSaavn counterpart for a (title,
// artist) pair. Titles are stripped of release-noise qualifiers before
// querying so the alternate catalog's own search isn't thrown off by them.
package altcatalog

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dselans/songbridge-api/backends/saavn"
	"github.com/dselans/songbridge-api/services/match"
)

// Known noise patterns on primary-catalog titles: "(From ...)" / "[From ...]"
// soundtrack qualifiers, "(Original ...)" qualifiers and single/EP suffixes.
var noiseREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(from.*?\)`),
	regexp.MustCompile(`(?i)\[from.*?\]`),
	regexp.MustCompile(`(?i)\(original.*?\)`),
	regexp.MustCompile(`(?i)- single`),
	regexp.MustCompile(`(?i)- ep`),
}

type IAltCatalog interface {
	FindBest(ctx context.Context, title, artist string) (*saavn.Song, error)
}

type AltCatalog struct {
	opts *Options
	log  *zap.Logger
}

type Options struct {
	Backend saavn.ISaavn
	Log     *zap.Logger
}

func New(opts *Options) (*AltCatalog, error) {
	if err := validateOptions(opts); err != nil {
		return nil, errors.Wrap(err, "failed to validate options")
	}

	return &AltCatalog{
		opts: opts,
		log:  opts.Log.With(zap.String("pkg", "altcatalog")),
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

// CleanTitle strips the known noise patterns from a track title.
func CleanTitle(title string) string {
	for _, re := range noiseREs {
		title = re.ReplaceAllString(title, "")
	}

	return strings.TrimSpace(title)
}

// FindBest searches the alternate catalog for title+artist and returns the
// scorer's best record, or nil when nothing relates. An empty artist is
// allowed and switches the scorer into its title-only mode.
func (a *AltCatalog) FindBest(ctx context.Context, title, artist string) (*saavn.Song, error) {
	logger := a.log.With(zap.String("method", "FindBest"))

	cleaned := CleanTitle(title)

	query := strings.TrimSpace(cleaned + " " + artist)

	songs, err := a.opts.Backend.SearchSongs(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "alternate catalog search failed")
	}

	candidates := make([]match.Candidate, 0, len(songs))
	for _, song := range songs {
		candidates = append(candidates, song)
	}

	result := match.Best(candidates, match.Query{Title: cleaned, Artist: artist})
	if !result.Matched() {
		logger.Debug("no alternate catalog match",
			zap.String("title", cleaned),
			zap.String("artist", artist))

		return nil, nil
	}

	song := result.Candidate.(saavn.Song)

	logger.Debug("alternate catalog match",
		zap.String("title", cleaned),
		zap.String("matchedId", song.ID),
		zap.Int("score", result.Score))

	return &song, nil
}
