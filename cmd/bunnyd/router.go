package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/bunny/internal/api"
	apiMiddleware "github.com/phrazzld/bunny/internal/api/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/phrazzld/bunny/docs"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	bunnyHandler := api.NewBunnyHandler(app.service)
	servicesHandler := api.NewServicesHandler(app.catalog)

	r.Route("/api", func(r chi.Router) {
		if app.authMW != nil {
			r.Use(app.authMW.Authenticate)
		}
		api.RegisterRoutes(r, bunnyHandler, servicesHandler)
	})

	r.Get("/health", api.Health)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
