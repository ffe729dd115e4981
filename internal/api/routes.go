package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the bunny endpoints under /bunny on r.
func RegisterRoutes(r chi.Router, bunny *BunnyHandler, services *ServicesHandler) {
	r.Route("/bunny", func(r chi.Router) {
		r.Post("/ocr", bunny.RequestOCR)
		r.Post("/translation", bunny.RequestTranslation)

		r.Get("/tasks", bunny.ListTasks)
		r.Delete("/tasks", bunny.ClearTasks)
		r.Get("/tasks/{id}", bunny.GetTask)
		r.Delete("/tasks/{id}", bunny.CancelTask)

		r.Put("/markers/{id}", bunny.RegisterMarker)
		r.Get("/markers/{id}/ocr", bunny.GetOCRResult)
		r.Get("/markers/{id}/translation", bunny.GetTranslationResult)

		r.Get("/services", services.ListServices)
		r.Post("/services/ocr", services.RegisterOCRService)
		r.Post("/services/translation", services.RegisterTranslationService)
		r.Delete("/services/{id}", services.UnregisterService)
	})
}
