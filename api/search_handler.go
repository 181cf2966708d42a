package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dselans/songbridge-api/services/aggregate"
	"github.com/dselans/songbridge-api/validate"
)

const (
	ErrMissingParams = "Missing 'song' or 'artist' parameters"
	ErrSongNotFound  = "Song not found on iTunes"
	ErrInternal      = "Internal Server Error"
)

func (a *API) searchHandler(rw http.ResponseWriter, r *http.Request) {
	logger := a.log.With(
		zap.String("method", "searchHandler"),
		zap.String("requestId", uuid.NewString()))

	logger.Info("handling /api/search request", zap.String("remoteAddr", r.RemoteAddr))

	song := r.URL.Query().Get("song")
	artist := r.URL.Query().Get("artist")

	if err := validate.SearchQuery(song, artist); err != nil {
		logger.Debug("invalid search query", zap.Error(err))
		a.writeError(rw, http.StatusBadRequest, ErrMissingParams)
		return
	}

	result, err := a.deps.AggregateService.Search(r.Context(), song, artist)
	if err != nil {
		if errors.Is(err, aggregate.ErrSeedNotFound) {
			logger.Info("song not found",
				zap.String("song", song),
				zap.String("artist", artist))

			a.writeError(rw, http.StatusNotFound, ErrSongNotFound)
			return
		}

		logger.Error("search pipeline failed", zap.Error(err))
		a.writeError(rw, http.StatusInternalServerError, ErrInternal)
		return
	}

	// Write response
	rw.Header().Set("Content-Type", "application/json; charset=UTF-8")
	rw.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(rw).Encode(result); err != nil {
		logger.Error("Failed to encode search response", zap.Error(err))
	}
}
