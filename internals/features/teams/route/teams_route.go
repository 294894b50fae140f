package route

import (
	"github.com/gofiber/fiber/v2"

	teamCtrl "campushub_backend/internals/features/teams/controller"
)

// Route user login: bentuk tim, join via kode, lihat tim sendiri.
func TeamUserRoutes(r fiber.Router, ctrl *teamCtrl.TeamController) {
	grp := r.Group("/teams")
	grp.Post("/", ctrl.CreateTeam)
	grp.Post("/join", ctrl.JoinTeam)
	grp.Get("/:event_id", ctrl.MyTeam)
}

// Route organizer/admin: retry batch registration untuk tim partial.
func TeamAdminRoutes(r fiber.Router, ctrl *teamCtrl.TeamController) {
	grp := r.Group("/teams")
	grp.Post("/:team_id/register", ctrl.RegisterBatch)
}
