package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/openHPI/herostore/internal/config"
	"github.com/openHPI/herostore/pkg/logging"
	"github.com/openHPI/herostore/pkg/messages"
	"github.com/openHPI/herostore/pkg/monitoring"
)

var log = logging.GetLogger("api")

const (
	BasePath     = "/api/v1"
	HealthPath   = "/health"
	VersionPath  = "/version"
	HeroesPath   = "/heroes"
	MessagesPath = "/messages"
)

// NewRouter returns a *mux.Router which can be
// used by the net/http package to serve the routes of our API. It
// always returns a router for the newest version of our API. We
// use gorilla/mux because it is more convenient than net/http, e.g.
// when extracting path parameters.
func NewRouter(repository *HeroRepository, journal *messages.Journal, ctx context.Context) *mux.Router {
	router := mux.NewRouter()
	// this can later be restricted to a specific host with
	// `router.Host(...)` and to HTTPS with `router.Schemes("https")`
	configureV1Router(router, repository, journal, ctx)
	router.Use(logging.HTTPLoggingMiddleware)
	router.Use(monitoring.InfluxDB2Middleware)
	return router
}

// configureV1Router configures a given router with the routes of version 1 of the Herostore API.
func configureV1Router(router *mux.Router, repository *HeroRepository, journal *messages.Journal, ctx context.Context) {
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithField("request", r).Debug("Not Found Handler")
		w.WriteHeader(http.StatusNotFound)
	})
	v1 := router.PathPrefix(BasePath).Subrouter()
	v1.HandleFunc(HealthPath, Health).Methods(http.MethodGet).Name(HealthPath)
	v1.HandleFunc(VersionPath, Version).Methods(http.MethodGet).Name(VersionPath)

	heroController := &HeroController{repository: repository, ctx: ctx}
	heroController.ConfigureRoutes(v1)

	messageController := &MessageController{journal: journal}
	messageController.ConfigureRoutes(v1)
}

// Health handles the health route.
// It responds that the server is alive.
// If it is not, the response won't reach the client.
func Health(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusNoContent)
}

// Version handles the version route.
// It responds the release information stored in the configuration.
func Version(writer http.ResponseWriter, request *http.Request) {
	release := config.Config.Sentry.Release
	if len(release) > 0 {
		sendJSON(request.Context(), writer, release, http.StatusOK)
	} else {
		writer.WriteHeader(http.StatusNotFound)
	}
}
