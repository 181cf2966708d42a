// Package applemusic fetches Apple Music detail documents and extracts the
// embedded serialized server data blob that carries the page's section tree.
package applemusic

import (
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dselans/songbridge-api/util"
)

// Element convention used by Apple Music pages to embed page data as JSON.
const serializedDataSelector = "#serialized-server-data"

type IAppleMusic interface {
	FetchSerializedData(ctx context.Context, pageURL string) ([]byte, error)
}

type AppleMusic struct {
	opts *Options
	log  *zap.Logger
}

type Options struct {
	UserAgent string
	Client    *http.Client
	Log       *zap.Logger
}

func New(opts *Options) (*AppleMusic, error) {
	if err := validateOptions(opts); err != nil {
		return nil, errors.Wrap(err, "failed to validate options")
	}

	return &AppleMusic{
		opts: opts,
		log:  opts.Log.With(zap.String("pkg", "applemusic")),
	}, nil
}

func validateOptions(opts *Options) error {
	if opts == nil {
		return errors.New("options cannot be nil")
	}

	if opts.Client == nil {
		return errors.New("client cannot be nil")
	}

	if opts.Log == nil {
		return errors.New("log cannot be nil")
	}

	return nil
}

// FetchSerializedData downloads the detail document at pageURL and returns
// the raw JSON text of its serialized server data element. The element's
// text content is preferred; some page variants carry the payload as inner
// HTML instead.
func (a *AppleMusic) FetchSerializedData(ctx context.Context, pageURL string) ([]byte, error) {
	logger := a.log.With(zap.String("method", "FetchSerializedData"))
	logger.Debug("fetching detail document", zap.String("url", pageURL))

	resp, err := util.DoHTTPGet(ctx, a.opts.Client, pageURL, nil, http.Header{
		"User-Agent": []string{a.opts.UserAgent},
	})
	if err != nil {
		return nil, errors.Wrap(err, "detail document request failed")
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse detail document")
	}

	sel := doc.Find(serializedDataSelector)

	data := sel.Text()
	if data == "" {
		data, err = sel.Html()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read serialized data element")
		}
	}

	if data == "" {
		return nil, errors.New("detail document has no serialized server data")
	}

	return []byte(data), nil
}
