package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/solacelabs/solace/backend/internal/handler/chat"
	"github.com/solacelabs/solace/backend/internal/middleware"
	"github.com/solacelabs/solace/backend/internal/service/orchestrator"
	"github.com/solacelabs/solace/backend/pkg/utils"
)

// NewRouter wires HTTP routes to the orchestrator.
func NewRouter(orchestratorSvc *orchestrator.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	chatHandler := chathandler.New(orchestratorSvc)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		chatHandler.RegisterWebsocket(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
