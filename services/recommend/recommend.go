// Package recommend extracts "more from artist" and "recommended" track
// lists from an Apple Music detail document.
//
// The document embeds a serialized server data blob whose schema is not
// stable across page versions, so the extractor does not assume a fixed path.
// It walks the entire JSON value with a streaming token visitor and collects
// every array found under a key named "sections", at any nesting depth, in
// document order.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dselans/songbridge-api/backends/applemusic"
)

// maxWalkDepth bounds recursion over the externally controlled blob. Anything
// nested deeper is consumed without being inspected.
const maxWalkDepth = 64

// Header substrings that classify a section. Sections matching neither set
// are ignored.
var (
	moreFromHeaders    = []string{"More by", "Top Songs"}
	recommendedHeaders = []string{"You Might Also Like", "Featured On", "Similar"}
)

type IRecommend interface {
	Extract(ctx context.Context, pageURL string) (*Lists, error)
}

type Recommend struct {
	opts *Options
	log  *zap.Logger
}

type Options struct {
	Backend applemusic.IAppleMusic
	Log     *zap.Logger
}

// Item is a single recommended track in document order. Lists may contain
// duplicates; nothing downstream deduplicates them.
type Item struct {
	Title string
	ID    string
}

// Lists holds the two classified item lists of a detail document.
type Lists struct {
	MoreFromArtist []Item
	Recommended    []Item
}

type section struct {
	Header struct {
		Item struct {
			TitleLink struct {
				Title string `json:"title"`
			} `json:"titleLink"`
			Title string `json:"title"`
		} `json:"item"`
	} `json:"header"`
	Items []sectionItem `json:"items"`
}

type sectionItem struct {
	Title              string          `json:"title"`
	AccessibilityLabel string          `json:"accessibilityLabel"`
	TitleLinks         []titleLink     `json:"titleLinks"`
	ID                 json.RawMessage `json:"id"`
	ContentDescriptor  struct {
		Identifiers struct {
			StoreAdamID json.RawMessage `json:"storeAdamID"`
		} `json:"identifiers"`
	} `json:"contentDescriptor"`
}

type titleLink struct {
	Title string `json:"title"`
}

func New(opts *Options) (*Recommend, error) {
	if err := validateOptions(opts); err != nil {
		return nil, errors.Wrap(err, "failed to validate options")
	}

	return &Recommend{
		opts: opts,
		log:  opts.Log.With(zap.String("pkg", "recommend")),
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

// Extract fetches the detail document at pageURL and returns its classified
// section item lists. Errors are returned to the caller; the orchestrator
// treats them as two empty lists.
func (r *Recommend) Extract(ctx context.Context, pageURL string) (*Lists, error) {
	logger := r.log.With(zap.String("method", "Extract"))

	data, err := r.opts.Backend.FetchSerializedData(ctx, pageURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch serialized page data")
	}

	sections, err := collectSections(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk serialized page data")
	}

	lists := &Lists{
		MoreFromArtist: []Item{},
		Recommended:    []Item{},
	}

	for _, sec := range sections {
		header := sec.Header.Item.TitleLink.Title
		if header == "" {
			header = sec.Header.Item.Title
		}

		switch {
		case containsAny(header, moreFromHeaders):
			lists.MoreFromArtist = append(lists.MoreFromArtist, sectionItems(sec, false)...)
		case containsAny(header, recommendedHeaders):
			lists.Recommended = append(lists.Recommended, sectionItems(sec, true)...)
		}
	}

	logger.Debug("extracted recommendation lists",
		zap.Int("sections", len(sections)),
		zap.Int("moreFromArtist", len(lists.MoreFromArtist)),
		zap.Int("recommended", len(lists.Recommended)))

	return lists, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}

// sectionItems converts a section's raw items, skipping any without both a
// display title and an external id. Recommendation-style sections may carry
// the title in the accessibility label instead of a title link.
func sectionItems(sec section, useAccessibilityLabel bool) []Item {
	items := make([]Item, 0, len(sec.Items))

	for _, raw := range sec.Items {
		title := ""
		if len(raw.TitleLinks) > 0 {
			title = raw.TitleLinks[0].Title
		}

		if title == "" && useAccessibilityLabel {
			title = raw.AccessibilityLabel
		}

		if title == "" {
			title = raw.Title
		}

		id := idString(raw.ContentDescriptor.Identifiers.StoreAdamID)
		if id == "" {
			id = idString(raw.ID)
		}

		if title == "" || id == "" {
			continue
		}

		items = append(items, Item{Title: title, ID: id})
	}

	return items
}

// idString normalizes an external id that may arrive as a JSON string or
// number.
func idString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

// collectSections walks the whole blob and gathers every "sections" array in
// document order.
func collectSections(data []byte) ([]section, error) {
	sections := []section{}

	dec := json.NewDecoder(bytes.NewReader(data))

	if err := walkValue(dec, 0, &sections); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("serialized page data is empty")
		}

		return nil, err
	}

	return sections, nil
}

// walkValue consumes exactly one JSON value from dec. Object members named
// "sections" have their values captured (when they are arrays) and are then
// themselves walked, since page variants nest section lists inside each
// other.
func walkValue(dec *json.Decoder, depth int, sections *[]section) error {
	if depth > maxWalkDepth {
		var skip json.RawMessage
		return dec.Decode(&skip)
	}

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// Scalar; nothing to descend into
		return nil
	}

	switch delim {
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}

			key, _ := keyTok.(string)

			if key == "sections" {
				var raw json.RawMessage
				if err := dec.Decode(&raw); err != nil {
					return err
				}

				appendSections(raw, sections)

				sub := json.NewDecoder(bytes.NewReader(raw))
				if err := walkValue(sub, depth+1, sections); err != nil {
					return err
				}

				continue
			}

			if err := walkValue(dec, depth+1, sections); err != nil {
				return err
			}
		}

		// Closing brace
		if _, err := dec.Token(); err != nil {
			return err
		}
	case '[':
		for dec.More() {
			if err := walkValue(dec, depth+1, sections); err != nil {
				return err
			}
		}

		// Closing bracket
		if _, err := dec.Token(); err != nil {
			return err
		}
	}

	return nil
}

// appendSections decodes raw as an array of sections, skipping elements that
// don't unmarshal. Non-array "sections" values are ignored.
func appendSections(raw json.RawMessage, sections *[]section) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return
	}

	for _, elem := range elems {
		var sec section
		if err := json.Unmarshal(elem, &sec); err != nil {
			continue
		}

		*sections = append(*sections, sec)
	}
}
