// file: internals/features/teams/controller/teams_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	regController "campushub_backend/internals/features/registrations/controller"
	dto "campushub_backend/internals/features/teams/dto"
	model "campushub_backend/internals/features/teams/model"
	service "campushub_backend/internals/features/teams/service"
	userModel "campushub_backend/internals/features/users/model"
	helper "campushub_backend/internals/helpers"
)

type TeamController struct {
	DB          *gorm.DB
	Coordinator *service.TeamCoordinator
}

var validate = validator.New()

func NewTeamController(db *gorm.DB, coordinator *service.TeamCoordinator) *TeamController {
	return &TeamController{DB: db, Coordinator: coordinator}
}

func teamErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrTeamNotFound),
		errors.Is(err, service.ErrInvalidCode):
		return fiber.StatusNotFound, true
	case errors.Is(err, service.ErrWrongEventType),
		errors.Is(err, service.ErrInvalidTeamSize),
		errors.Is(err, service.ErrTeamNotComplete):
		return fiber.StatusBadRequest, true
	case errors.Is(err, service.ErrTeamFull),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrAlreadyOnATeam),
		errors.Is(err, service.ErrAlreadyOnAnotherTeam):
		return fiber.StatusConflict, true
	}
	return regController.LedgerErrorStatus(err)
}

func (h *TeamController) loadUser(c *fiber.Ctx) (*userModel.UserModel, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	var user userModel.UserModel
	if err := h.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}
	return &user, nil
}

// =========================================================
// CREATE TEAM - POST /api/u/teams
// Tim solo (size 1) langsung menjalankan batch registration
// =========================================================
func (h *TeamController) CreateTeam(c *fiber.Ctx) error {
	user, err := h.loadUser(c)
	if user == nil {
		return err
	}

	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	outcome, err := h.Coordinator.CreateTeam(c.UserContext(), req.EventID, user, req.TeamName, req.TeamSize)
	if err != nil && outcome == nil {
		if status, ok := teamErrorStatus(err); ok {
			return helper.JsonError(c, status, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat tim")
	}

	// Batch solo-team bisa partial: tim terbentuk tapi registrasi gagal.
	// Outcome tetap dikirim supaya leader tahu posisi timnya.
	if err != nil {
		status, ok := teamErrorStatus(err)
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Tim terbentuk, tapi registrasi belum selesai: " + err.Error(),
			"data":    dto.ToTeamResponse(outcome),
		})
	}

	return helper.JsonCreated(c, "Tim berhasil dibuat", dto.ToTeamResponse(outcome))
}

// =========================================================
// JOIN TEAM - POST /api/u/teams/join
// Join pemenuh kuota memicu batch registration sinkron
// =========================================================
func (h *TeamController) JoinTeam(c *fiber.Ctx) error {
	user, err := h.loadUser(c)
	if user == nil {
		return err
	}

	var req dto.JoinTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	outcome, err := h.Coordinator.JoinTeam(c.UserContext(), req.InviteCode, user)
	if err != nil && outcome == nil {
		if status, ok := teamErrorStatus(err); ok {
			return helper.JsonError(c, status, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal join tim")
	}

	// Partial batch: member berhasil join, sebagian registrasi gagal.
	// Hasil per anggota tetap dipulangkan, bukan ditelan satu error.
	if err != nil {
		status, ok := teamErrorStatus(err)
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Join berhasil, tapi batch registration belum selesai: " + err.Error(),
			"data":    dto.ToTeamResponse(outcome),
		})
	}

	return helper.JsonOK(c, "Berhasil join tim", dto.ToTeamResponse(outcome))
}

// =========================================================
// MY TEAM - GET /api/u/teams/:event_id
// =========================================================
func (h *TeamController) MyTeam(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("event_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID event tidak valid")
	}

	var membership model.TeamMemberModel
	if err := h.DB.
		Where("team_member_event_id = ? AND team_member_user_id = ?", eventID, userID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Belum tergabung di tim manapun untuk event ini")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data tim")
	}

	var team model.TeamModel
	if err := h.DB.Where("team_id = ?", membership.TeamMemberTeamID).First(&team).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data tim")
	}

	var members []model.TeamMemberModel
	if err := h.DB.
		Where("team_member_team_id = ?", team.TeamID).
		Order("team_member_position ASC").
		Find(&members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil anggota tim")
	}

	return helper.JsonOK(c, "OK", dto.ToTeamResponse(&service.TeamOutcome{Team: &team, Members: members}))
}

// =========================================================
// REGISTER BATCH - POST /api/a/teams/:team_id/register
// Retry manual untuk tim yang batch-nya partial (idempoten)
// =========================================================
func (h *TeamController) RegisterBatch(c *fiber.Ctx) error {
	teamID, err := uuid.Parse(strings.TrimSpace(c.Params("team_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tim tidak valid")
	}

	batch, err := h.Coordinator.RegisterTeam(c.UserContext(), teamID)
	if err != nil && batch == nil {
		if status, ok := teamErrorStatus(err); ok {
			return helper.JsonError(c, status, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menjalankan batch registration")
	}
	if err != nil {
		status, ok := teamErrorStatus(err)
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Batch registration belum selesai: " + err.Error(),
			"data":    batch,
		})
	}

	return helper.JsonOK(c, "Batch registration selesai", batch)
}
