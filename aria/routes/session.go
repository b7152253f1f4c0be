package routes

import (
	"aria/aria/controllers"

	"github.com/go-chi/chi/v5"
)

func SessionRoutes(ctrl *controllers.SessionController) chi.Router {
	r := chi.NewRouter()
	// One websocket connection per call; no auth — the media gateway sits
	// inside the trusted network.
	r.HandleFunc("/ws", ctrl.HandleSession)
	return r
}
