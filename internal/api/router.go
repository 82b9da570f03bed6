package api

import (
	"drone-dispatch-service/internal/api/handlers"
	"log"

	"github.com/go-chi/chi/v5"
)

// RouterDeps carries the wired handlers into the router.
type RouterDeps struct {
	Orders  *handlers.OrderHandler
	Drones  *handlers.DroneHandler
	Plans   *handlers.PlanHandler
	Flights *handlers.FlightHandler
	Feed    *Feed
	Logger  *log.Logger
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(deps.Logger))

	r.Get("/health", handlers.Health)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", deps.Orders.Create)
		r.Get("/{orderNumber}", deps.Orders.Get)
		r.Post("/{orderNumber}/pickup", deps.Orders.ConfirmPickup)
		r.Post("/{orderNumber}/cancel", deps.Orders.Cancel)
	})

	r.Get("/drones", deps.Drones.List)

	r.Route("/plans", func(r chi.Router) {
		r.Post("/routes", deps.Plans.PlanRoutes)
		r.Post("/tour", deps.Plans.PlanTour)
	})

	r.Route("/flights/{droneId}", func(r chi.Router) {
		r.Get("/", deps.Flights.Position)
		r.Post("/start", deps.Flights.Start)
		r.Post("/stop", deps.Flights.Stop)
	})

	r.Get("/ws/tracking", deps.Feed.Handle)

	return r
}
