package route

import (
	"github.com/gofiber/fiber/v2"

	eventCtrl "campushub_backend/internals/features/events/controller"
)

// Route publik: semua orang boleh lihat event (draft disaring di controller).
func EventPublicRoutes(r fiber.Router, ctrl *eventCtrl.EventController) {
	grp := r.Group("/events")
	grp.Get("/", ctrl.List)
	grp.Get("/:id", ctrl.GetByID)
}

// Route organizer: lifecycle event (create/publish/close).
func EventOrganizerRoutes(r fiber.Router, ctrl *eventCtrl.EventController) {
	grp := r.Group("/events")
	grp.Post("/", ctrl.Create)
	grp.Post("/:id/publish", ctrl.Publish)
	grp.Post("/:id/close", ctrl.Close)
}
