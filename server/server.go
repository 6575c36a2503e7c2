// Package server assembles the HTTP surface and owns its lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	v1 "github.com/litcircle/litcircle/api/v1"
	"github.com/litcircle/litcircle/config"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/store"
	"github.com/litcircle/litcircle/version"
	"github.com/litcircle/litcircle/worker"
)

// StartServer builds the router and starts listening in the background.
// Callers stop it with Shutdown.
func StartServer(ctx context.Context, store *store.Store, coverPool worker.WorkPool) (*http.Server, error) {
	handler, err := setupHandler(store, coverPool)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Opts.Host, config.Opts.Port),
		Handler: handler,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	return server, nil
}

// Shutdown drains in-flight requests before closing the listener.
func Shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Error shutting down HTTP server", zap.Error(err))
	}
}

func setupHandler(store *store.Store, coverPool worker.WorkPool) (http.Handler, error) {
	router := mux.NewRouter()

	if err := v1.Server(router, store, coverPool); err != nil {
		return nil, err
	}

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router, nil
}
