// file: internals/features/registrations/controller/registrations_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campushub_backend/internals/constants"
	eventService "campushub_backend/internals/features/events/service"
	dto "campushub_backend/internals/features/registrations/dto"
	model "campushub_backend/internals/features/registrations/model"
	service "campushub_backend/internals/features/registrations/service"
	userModel "campushub_backend/internals/features/users/model"
	helper "campushub_backend/internals/helpers"

	eventModel "campushub_backend/internals/features/events/model"
)

type RegistrationController struct {
	DB     *gorm.DB
	Ledger *eventService.CapacityLedger
	Issuer *service.RegistrationIssuer
}

var validate = validator.New()

func NewRegistrationController(db *gorm.DB, ledger *eventService.CapacityLedger, issuer *service.RegistrationIssuer) *RegistrationController {
	return &RegistrationController{DB: db, Ledger: ledger, Issuer: issuer}
}

// LedgerErrorStatus memetakan penolakan ledger/issuer ke status HTTP.
// Penolakan kapasitas dan duplikasi adalah conflict, bukan bad request:
// payload-nya valid, state store-nya yang menolak.
func LedgerErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, eventService.ErrEventNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, eventService.ErrRegistrationClosed),
		errors.Is(err, eventService.ErrDeadlinePassed):
		return fiber.StatusBadRequest, true
	case errors.Is(err, eventService.ErrNotEligible):
		return fiber.StatusForbidden, true
	case errors.Is(err, eventService.ErrCapacityFull),
		errors.Is(err, eventService.ErrOutOfStock),
		errors.Is(err, eventService.ErrAlreadyRegistered):
		return fiber.StatusConflict, true
	}
	return 0, false
}

// =========================================================
// REGISTER - POST /api/u/registrations
// Reservasi kuota + penerbitan tiket, satu request
// =========================================================
func (h *RegistrationController) Register(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.UserModel
	if err := h.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	var ev eventModel.EventModel
	if err := h.DB.Where("event_id = ?", req.EventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil event")
	}

	// event tim hanya bisa lewat alur tim; tiket individual tidak berlaku
	if ev.EventType == constants.EventTypeTeam {
		return helper.JsonError(c, fiber.StatusBadRequest, "Event tim hanya bisa didaftar lewat tim")
	}

	quantity := 0
	payload := service.IssuePayload{FormResponses: req.FormResponses}
	if req.Merchandise != nil {
		quantity = req.Merchandise.Quantity
		if quantity < 1 {
			quantity = 1
		}
		payload.MerchandiseOrder = &model.MerchandiseOrder{
			Size:     req.Merchandise.Size,
			Color:    req.Merchandise.Color,
			Variant:  req.Merchandise.Variant,
			Quantity: quantity,
		}
	}

	res, err := h.Ledger.ReserveSlot(c.UserContext(), ev.EventID, &user, quantity)
	if err != nil {
		if status, ok := LedgerErrorStatus(err); ok {
			return helper.JsonError(c, status, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses registrasi")
	}

	reg, err := h.Issuer.Issue(c.UserContext(), &ev, &user, res, payload)
	if err != nil {
		if status, ok := LedgerErrorStatus(err); ok {
			return helper.JsonError(c, status, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menerbitkan tiket")
	}

	return helper.JsonCreated(c, "Registrasi berhasil, tiket terbit", dto.ToRegistrationResponse(reg))
}

// =========================================================
// MY REGISTRATIONS - GET /api/u/registrations
// =========================================================
func (h *RegistrationController) MyRegistrations(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := h.DB.Model(&model.RegistrationModel{}).
		Where("registration_user_id = ?", userID).
		Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung registrasi")
	}

	var regs []model.RegistrationModel
	if err := h.DB.
		Where("registration_user_id = ?", userID).
		Order("registration_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&regs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil registrasi")
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", dto.ToRegistrationResponses(regs), &pagination)
}

// =========================================================
// MY TICKET - GET /api/u/registrations/:ticket_id
// =========================================================
func (h *RegistrationController) MyTicket(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	ticketID := strings.TrimSpace(c.Params("ticket_id"))
	if ticketID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Ticket ID wajib diisi")
	}

	var reg model.RegistrationModel
	if err := h.DB.
		Where("registration_ticket_id = ? AND registration_user_id = ?", ticketID, userID).
		First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tiket tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil tiket")
	}

	return helper.JsonOK(c, "OK", dto.ToRegistrationResponse(&reg))
}
