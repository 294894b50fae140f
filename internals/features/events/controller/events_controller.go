// file: internals/features/events/controller/events_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"campushub_backend/internals/constants"
	dto "campushub_backend/internals/features/events/dto"
	model "campushub_backend/internals/features/events/model"
	service "campushub_backend/internals/features/events/service"
	notif "campushub_backend/internals/features/notifications/service"
	helper "campushub_backend/internals/helpers"
)

type EventController struct {
	DB       *gorm.DB
	Announce *notif.AnnouncementWebhook
}

var validate = validator.New()

func NewEventController(db *gorm.DB, announce *notif.AnnouncementWebhook) *EventController {
	return &EventController{DB: db, Announce: announce}
}

// =========================================================
// CREATE - POST /api/a/events
// Event baru selalu lahir sebagai draft
// =========================================================
func (h *EventController) Create(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.ValidateVariant(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if !req.EventEndDate.After(req.EventStartDate) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tanggal selesai harus setelah tanggal mulai")
	}
	if req.EventRegistrationDeadline.After(req.EventStartDate) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Deadline registrasi harus sebelum event mulai")
	}

	m := req.ToModel(organizerID)
	if err := h.DB.Create(m).Error; err != nil {
		status, msg := helper.MapPGError(err)
		return helper.JsonError(c, status, msg)
	}
	return helper.JsonCreated(c, "Event berhasil dibuat", dto.ToEventResponse(m, m.EventStatus))
}

// =========================================================
// PUBLISH - POST /api/a/events/:id/publish
// Guarded update draft → published; publish ulang = no-op conflict
// =========================================================
func (h *EventController) Publish(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID event tidak valid")
	}

	var ev model.EventModel
	if err := h.DB.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil event")
	}
	if ev.EventOrganizerID != organizerID && helper.GetRoleFromToken(c) != constants.RoleAdmin {
		return helper.JsonError(c, fiber.StatusForbidden, "Bukan organizer event ini")
	}

	res := h.DB.Model(&model.EventModel{}).
		Where("event_id = ? AND event_status = ?", eventID, constants.EventStatusDraft).
		Update("event_status", constants.EventStatusPublished)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal publish event")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Event sudah dipublish atau sudah ditutup")
	}

	ev.EventStatus = constants.EventStatusPublished
	notif.DispatchAnnouncement(h.Announce, ev.EventTitle, helper.GetUserNameFromToken(c), ev.EventStartDate)

	return helper.JsonUpdated(c, "Event berhasil dipublish", dto.ToEventResponse(&ev, service.EffectiveStatus(&ev, nowOf(c))))
}

// =========================================================
// CLOSE - POST /api/a/events/:id/close
// Closed bersifat terminal, menang atas aturan waktu
// =========================================================
func (h *EventController) Close(c *fiber.Ctx) error {
	organizerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID event tidak valid")
	}

	var ev model.EventModel
	if err := h.DB.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil event")
	}
	if ev.EventOrganizerID != organizerID && helper.GetRoleFromToken(c) != constants.RoleAdmin {
		return helper.JsonError(c, fiber.StatusForbidden, "Bukan organizer event ini")
	}

	res := h.DB.Model(&model.EventModel{}).
		Where("event_id = ? AND event_status <> ?", eventID, constants.EventStatusClosed).
		Update("event_status", constants.EventStatusClosed)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menutup event")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Event sudah ditutup")
	}

	ev.EventStatus = constants.EventStatusClosed
	return helper.JsonUpdated(c, "Event berhasil ditutup", dto.ToEventResponse(&ev, constants.EventStatusClosed))
}

// =========================================================
// GET BY ID - GET /api/n/events/:id
// =========================================================
func (h *EventController) GetByID(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID event tidak valid")
	}

	var ev model.EventModel
	if err := h.DB.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil event")
	}

	// draft tidak pernah bocor ke publik
	if ev.EventStatus == constants.EventStatusDraft {
		role := helper.GetRoleFromToken(c)
		if role != constants.RoleOrganizer && role != constants.RoleAdmin {
			return helper.JsonError(c, fiber.StatusNotFound, "Event tidak ditemukan")
		}
	}

	return helper.JsonOK(c, "OK", dto.ToEventResponse(&ev, service.EffectiveStatus(&ev, nowOf(c))))
}

// =========================================================
// LIST - GET /api/n/events?type=&status=&page=&per_page=
// Filter status memakai status EFEKTIF, bukan kolom tersimpan
// =========================================================
func (h *EventController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	now := nowOf(c)
	role := helper.GetRoleFromToken(c)

	eventType := strings.TrimSpace(c.Query("type"))
	if eventType != "" && !knownEventType(eventType) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tipe event tidak dikenal")
	}

	base := func() *gorm.DB {
		q := h.DB.Model(&model.EventModel{})
		if eventType != "" {
			q = q.Where("event_type = ?", eventType)
		}
		// Non-organizer tidak pernah melihat draft
		if role == "" || role == constants.RoleParticipant {
			q = q.Where("event_status <> ?", constants.EventStatusDraft)
		}
		return q
	}

	wantStatus := strings.TrimSpace(c.Query("status"))

	// Tanpa filter status efektif, window langsung di DB
	if wantStatus == "" {
		var total int64
		if err := base().Count(&total).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung event")
		}

		var events []model.EventModel
		if err := base().Order("event_start_date ASC").
			Offset(paging.Offset).Limit(paging.Limit).
			Find(&events).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar event")
		}

		out := make([]dto.EventResponse, 0, len(events))
		for i := range events {
			out = append(out, *dto.ToEventResponse(&events[i], service.EffectiveStatus(&events[i], now)))
		}
		pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
		return helper.JsonList(c, "OK", out, &pagination)
	}

	// Status efektif dihitung per baris dari jam dan tanggal, tidak bisa
	// difilter di SQL; muat hasil terurut lalu window di memori
	var events []model.EventModel
	if err := base().Order("event_start_date ASC").Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar event")
	}

	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		eff := service.EffectiveStatus(&events[i], now)
		if eff != wantStatus {
			continue
		}
		out = append(out, *dto.ToEventResponse(&events[i], eff))
	}

	total := int64(len(out))
	start := paging.Offset
	if start > len(out) {
		start = len(out)
	}
	end := start + paging.Limit
	if end > len(out) {
		end = len(out)
	}
	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)

	return helper.JsonList(c, "OK", out[start:end], &pagination)
}

func knownEventType(t string) bool {
	for _, et := range constants.EventTypes {
		if et == t {
			return true
		}
	}
	return false
}

// nowOf membaca override waktu dari Locals (dipakai test), fallback ke jam sistem.
func nowOf(c *fiber.Ctx) time.Time {
	if v, ok := c.Locals("now").(time.Time); ok {
		return v
	}
	return time.Now()
}
