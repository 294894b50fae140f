// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campushub_backend/internals/configs"
	"campushub_backend/internals/constants"
	authMiddleware "campushub_backend/internals/middlewares/auth"

	eventCtrl "campushub_backend/internals/features/events/controller"
	eventRoute "campushub_backend/internals/features/events/route"
	eventService "campushub_backend/internals/features/events/service"
	notifService "campushub_backend/internals/features/notifications/service"
	regCtrl "campushub_backend/internals/features/registrations/controller"
	regRoute "campushub_backend/internals/features/registrations/route"
	regService "campushub_backend/internals/features/registrations/service"
	teamCtrl "campushub_backend/internals/features/teams/controller"
	teamRoute "campushub_backend/internals/features/teams/route"
	teamService "campushub_backend/internals/features/teams/service"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== SERVICES =====================
	// Satu ledger + satu issuer dipakai jalur individu DAN batch tim:
	// satu sumber kebenaran untuk aritmetika kuota.
	ledger := eventService.NewCapacityLedger(db)
	qr := &regService.URLQRGenerator{BaseURL: configs.QRServiceBaseURL}
	mailer := notifService.NewSMTPTicketMailer(
		configs.SMTPHost, configs.SMTPPort,
		configs.SMTPUsername, configs.SMTPPassword, configs.SMTPFrom,
	)
	issuer := regService.NewRegistrationIssuer(db, ledger, qr, mailer)
	coordinator := teamService.NewTeamCoordinator(db, ledger, issuer)
	announce := notifService.NewAnnouncementWebhook(configs.AnnouncementWebhookURL)

	// ===================== CONTROLLERS =====================
	eventController := eventCtrl.NewEventController(db, announce)
	registrationController := regCtrl.NewRegistrationController(db, ledger, issuer)
	teamController := teamCtrl.NewTeamController(db, coordinator)

	// ===================== GROUPS =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/n")

	log.Println("[INFO] Setting up USER group (Auth)...")
	user := app.Group("/api/u",
		authMiddleware.AuthMiddleware(),
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorParticipant("fitur peserta"),
			constants.AllRoles,
		),
	)

	log.Println("[INFO] Setting up ORGANIZER group (Auth + RoleCheck)...")
	organizer := app.Group("/api/a",
		authMiddleware.AuthMiddleware(),
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorOrganizer("manajemen event"),
			constants.OrganizerAndAbove,
		),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Event routes...")
	eventRoute.EventPublicRoutes(public, eventController)
	eventRoute.EventOrganizerRoutes(organizer, eventController)

	log.Println("[INFO] Mounting Registration routes...")
	regRoute.RegistrationUserRoutes(user, registrationController)

	log.Println("[INFO] Mounting Team routes...")
	teamRoute.TeamUserRoutes(user, teamController)
	teamRoute.TeamAdminRoutes(organizer, teamController)
}
