package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pantryhub/pantry-hub/internal/config"
	"github.com/pantryhub/pantry-hub/internal/handlers"
	"github.com/pantryhub/pantry-hub/internal/repository"
	"github.com/pantryhub/pantry-hub/internal/services"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config) *Server {
	recipeRepo := repository.NewRecipeRepository(database)
	assignmentRepo := repository.NewMealAssignmentRepository(database)
	listRepo := repository.NewShoppingListRepository(database)

	normalizer := services.NewNormalizer(cfg.MergeUnitsFold)
	catalog := services.NewCategoryCatalog(normalizer)
	formatter := services.NewFormatter(catalog)
	listService := services.NewShoppingListService(recipeRepo, assignmentRepo, listRepo, normalizer, catalog)

	recipeHandler := handlers.NewRecipeHandler(recipeRepo, assignmentRepo)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentRepo, recipeRepo)
	listHandler := handlers.NewShoppingListHandler(listService, listRepo, formatter)
	icalHandler := handlers.NewICalHandler(assignmentRepo)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/ical/meals.ics", icalHandler.Feed)

	router.Route("/api", func(r chi.Router) {
		r.Get("/recipes", recipeHandler.List)
		r.Post("/recipes", recipeHandler.Create)
		r.Post("/recipes/import", recipeHandler.Import)
		r.Get("/recipes/{id}", recipeHandler.Get)
		r.Post("/recipes/{id}", recipeHandler.Update)
		r.Delete("/recipes/{id}", recipeHandler.Delete)
		r.Get("/recipes/{id}/export", recipeHandler.Export)

		r.Get("/assignments", assignmentHandler.List)
		r.Post("/assignments", assignmentHandler.Upsert)
		r.Delete("/assignments/{date}/{slot}", assignmentHandler.Delete)

		r.Get("/shopping-lists", listHandler.List)
		r.Post("/shopping-lists/generate", listHandler.Generate)
		r.Get("/shopping-lists/precheck", listHandler.Precheck)
		r.Get("/shopping-lists/{id}", listHandler.Get)
		r.Delete("/shopping-lists/{id}", listHandler.Delete)
		r.Post("/shopping-lists/{id}/items", listHandler.AddManualItem)
		r.Post("/shopping-lists/{id}/items/{itemID}/check", listHandler.SetChecked)
		r.Post("/shopping-lists/{id}/items/{itemID}/cancel", listHandler.CancelItem)
		r.Post("/shopping-lists/{id}/items/{itemID}/restore", listHandler.RestoreItem)
		r.Post("/shopping-lists/{id}/items/{itemID}/remaining", listHandler.ApplyRemaining)
	})

	return &Server{router: router, config: cfg}
}

func (server *Server) Start() error {
	slog.Info("starting server", "port", server.config.Port)
	return http.ListenAndServe(":"+server.config.Port, server.router)
}

// Router exposes the mux for tests.
func (server *Server) Router() http.Handler {
	return server.router
}
