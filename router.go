package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	httpSwagger "github.com/swaggo/http-swagger"
)

// routes wires middlewares and endpoints. Adjust CORS for your frontend hosts.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000", "https://*.run.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Write(openapiYAML)
	})

	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", a.handleRegister)
		api.Post("/auth/login", a.handleLogin)

		api.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Get("/me", a.handleMe)
			pr.Put("/profile", a.handleUpdateProfile)

			pr.Route("/fields", func(fr chi.Router) {
				fr.Get("/", a.handleListFields)
				fr.Post("/", a.handleCreateField)
				fr.Get("/{id}", a.handleGetField)
				fr.Put("/{id}", a.handleUpdateField)
				fr.Delete("/{id}", a.handleDeleteField)
				fr.Post("/{id}/analyze", a.handleAnalyzeField)
				fr.Post("/{id}/irrigation-log", a.handleLogIrrigation)
			})

			pr.Route("/irrigation", func(ir chi.Router) {
				ir.Post("/analyze-all", a.handleAnalyzeAll)
				ir.Get("/predictions", a.handleListPredictions)
				ir.Get("/events", a.handleListIrrigationEvents)
				ir.Delete("/events/{id}", a.handleDeleteIrrigationEvent)
			})

			pr.Route("/crop-doctor", func(cr chi.Router) {
				cr.Post("/analyses", a.handleDiagnoseCrop)
				cr.Get("/analyses", a.handleListCropAnalyses)
				cr.Delete("/analyses/{id}", a.handleDeleteCropAnalysis)
			})

			pr.Route("/tasks", func(tr chi.Router) {
				tr.Get("/", a.handleListTasks)
				tr.Post("/", a.handleCreateTask)
				tr.Put("/{id}", a.handleUpdateTask)
				tr.Post("/{id}/advance", a.handleAdvanceTask)
				tr.Delete("/{id}", a.handleDeleteTask)
			})

			pr.Get("/soil-health", a.handleGetSoilHealth)
			pr.Put("/soil-health", a.handleUpdateSoilHealth)

			pr.Get("/dashboard/summary", a.handleDashboardSummary)
			pr.Get("/weather", a.handleWeather)
			pr.Get("/geocode/reverse", a.handleReverseGeocode)
		})
	})

	return r
}
