package web

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/carrig/config"
	"github.com/mogaika/carrig/scene"
	"github.com/mogaika/carrig/sim"
)

var ServerScene *scene.Scene
var ServerDriver *sim.Driver

func NewRouter(sc *scene.Scene, d *sim.Driver) http.Handler {
	ServerScene = sc
	ServerDriver = d

	r := mux.NewRouter()
	r.HandleFunc("/json/state", HandlerState).Methods("GET")
	r.HandleFunc("/json/config", HandlerConfig).Methods("GET")
	r.HandleFunc("/json/scene", HandlerScene).Methods("GET")
	r.HandleFunc("/json/object/{id}", HandlerObject).Methods("GET")
	r.HandleFunc("/export/frame.{format}", HandlerExportFrame).Methods("GET")
	r.HandleFunc("/dump/state", HandlerDumpState).Methods("GET")
	r.HandleFunc("/ws", HandlerWebsocket)

	return handlers.RecoveryHandler()(r)
}

// StartServer serves until ctx is done
func StartServer(ctx context.Context, addr string, sc *scene.Scene, d *sim.Driver) error {
	h := handlers.LoggingHandler(os.Stdout, NewRouter(sc, d))
	srv := &http.Server{Addr: addr, Handler: h}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[web] Starting server %v (mode %s)", addr, config.GetRig().Mode)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
