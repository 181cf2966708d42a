package api

import (
	"net/http"

	"github.com/InVisionApp/go-health/handlers"
	"go.uber.org/zap"
)

func (a *API) healthCheckHandler(rw http.ResponseWriter, r *http.Request) {
	handlers.NewJSONHandlerFunc(a.deps.Health, nil)(rw, r)
}

func (a *API) versionHandler(rw http.ResponseWriter, r *http.Request) {
	logger := a.log.With(zap.String("method", "versionHandler"))
	logger.Debug("handling /version request", zap.String("remoteAddr", r.RemoteAddr))

	WriteJSON(rw, ResponseJSON{
		Status:  http.StatusOK,
		Message: "songbridge-api " + a.version,
	}, http.StatusOK)
}
