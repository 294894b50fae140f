package route

import (
	"github.com/gofiber/fiber/v2"

	regCtrl "campushub_backend/internals/features/registrations/controller"
	middleware "campushub_backend/internals/middlewares"
)

// Route user login: registrasi individu + tiket milik sendiri.
// POST dibatasi rate limiter khusus — endpoint paling rawan spam.
func RegistrationUserRoutes(r fiber.Router, ctrl *regCtrl.RegistrationController) {
	grp := r.Group("/registrations")
	grp.Post("/", middleware.RegistrationRateLimiter(), ctrl.Register)
	grp.Get("/", ctrl.MyRegistrations)
	grp.Get("/:ticket_id", ctrl.MyTicket)
}
