package routes

import (
	"encoding/json"
	"net/http"

	"aria/aria/config"
	"aria/aria/controllers"
	"aria/aria/middlewares"

	"github.com/go-chi/chi/v5"
)

func RecordsRoutes(ctrl *controllers.RecordsController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/summaries", func(w http.ResponseWriter, r *http.Request) {
			phone := r.URL.Query().Get("phone")
			if phone == "" {
				http.Error(w, "phone query parameter required", http.StatusBadRequest)
				return
			}
			summaries, err := ctrl.ListSummaries(r.Context(), phone)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(summaries)
		})

		gr.Get("/appointments", func(w http.ResponseWriter, r *http.Request) {
			phone := r.URL.Query().Get("phone")
			if phone == "" {
				http.Error(w, "phone query parameter required", http.StatusBadRequest)
				return
			}
			appts, err := ctrl.ListAppointments(r.Context(), phone, r.URL.Query().Get("status"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(appts)
		})

		gr.Get("/preferences", func(w http.ResponseWriter, r *http.Request) {
			phone := r.URL.Query().Get("phone")
			if phone == "" {
				http.Error(w, "phone query parameter required", http.StatusBadRequest)
				return
			}
			prefs, err := ctrl.ListPreferences(r.Context(), phone)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(prefs)
		})
	})
	return r
}
