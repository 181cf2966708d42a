package validate

import (
	"strings"

	"github.com/pkg/errors"
)

// SearchQuery validates the user-supplied query parameters for /api/search.
// Whitespace-only values are treated as missing.
func SearchQuery(song, artist string) error {
	if strings.TrimSpace(song) == "" {
		return errors.New("song cannot be empty")
	}

	if strings.TrimSpace(artist) == "" {
		return errors.New("artist cannot be empty")
	}

	return nil
}

// AdamID validates an Apple store identifier used for cross-reference lookups.
func AdamID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("adam id cannot be empty")
	}

	return nil
}
