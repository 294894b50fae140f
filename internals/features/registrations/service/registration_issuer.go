// file: internals/features/registrations/service/registration_issuer.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	eventModel "campushub_backend/internals/features/events/model"
	eventService "campushub_backend/internals/features/events/service"
	"campushub_backend/internals/features/registrations/model"
	userModel "campushub_backend/internals/features/users/model"

	"campushub_backend/internals/constants"
	helper "campushub_backend/internals/helpers"
)

// QRGenerator merender payload tiket jadi opaque image reference.
// Kegagalannya hard error: tiket tanpa QR tidak bisa discan.
type QRGenerator interface {
	Generate(payload []byte) (string, error)
}

// TicketMailer mengirim email tiket. Best-effort, tidak pernah ditunggu.
type TicketMailer interface {
	SendTicket(toEmail, toName, ticketID, eventTitle, qrRef string) error
}

// IssuePayload membawa isian peserta saat registrasi.
type IssuePayload struct {
	FormResponses    datatypes.JSONMap
	MerchandiseOrder *model.MerchandiseOrder
	TeamID           *uuid.UUID
}

// qrPayload adalah record terstruktur yang di-encode ke QR.
type qrPayload struct {
	TicketID      string     `json:"ticket_id"`
	EventID       uuid.UUID  `json:"event_id"`
	ParticipantID uuid.UUID  `json:"participant_id"`
	TeamID        *uuid.UUID `json:"team_id,omitempty"`
	EventName     string     `json:"event_name"`
}

const ticketIDMaxAttempts = 3

// RegistrationIssuer membuat record registrasi untuk satu reservasi sukses.
type RegistrationIssuer struct {
	DB     *gorm.DB
	Ledger *eventService.CapacityLedger
	QR     QRGenerator
	Mailer TicketMailer
	Now    func() time.Time
	// TicketID bisa di-inject; kosong → generator default berbasis waktu.
	TicketID func() string
}

func NewRegistrationIssuer(db *gorm.DB, ledger *eventService.CapacityLedger, qr QRGenerator, mailer TicketMailer) *RegistrationIssuer {
	return &RegistrationIssuer{DB: db, Ledger: ledger, QR: qr, Mailer: mailer, Now: time.Now}
}

func (s *RegistrationIssuer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// newTicketID: prefix waktu + suffix random. Human-readable; keunikan global
// tetap ditegakkan unique constraint di store sebagai backstop.
func (s *RegistrationIssuer) newTicketID() string {
	if s.TicketID != nil {
		return s.TicketID()
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TKT-%s-%s", s.now().Format("060102150405"), suffix)
}

// Issue mempersist registrasi ber-status registered untuk reservasi yang
// sudah dipegang caller. Kegagalan QR/persist → kompensasi ReleaseSlot dulu,
// baru error dinaikkan, supaya kuota tidak pernah terpakai tanpa registrasi.
func (s *RegistrationIssuer) Issue(ctx context.Context, ev *eventModel.EventModel, user *userModel.UserModel, res *eventService.Reservation, payload IssuePayload) (*model.RegistrationModel, error) {
	var merchOrder datatypes.JSON
	if payload.MerchandiseOrder != nil {
		b, err := json.Marshal(payload.MerchandiseOrder)
		if err != nil {
			s.compensate(ctx, res, "marshal merchandise order")
			return nil, fmt.Errorf("marshal merchandise order: %w", err)
		}
		merchOrder = datatypes.JSON(b)
	}

	var reg *model.RegistrationModel
	for attempt := 0; attempt < ticketIDMaxAttempts; attempt++ {
		ticketID := s.newTicketID()

		qb, err := json.Marshal(qrPayload{
			TicketID:      ticketID,
			EventID:       ev.EventID,
			ParticipantID: user.UserID,
			TeamID:        payload.TeamID,
			EventName:     ev.EventTitle,
		})
		if err != nil {
			s.compensate(ctx, res, "marshal QR payload")
			return nil, fmt.Errorf("marshal QR payload: %w", err)
		}

		qrRef, err := s.QR.Generate(qb)
		if err != nil {
			s.compensate(ctx, res, "generate QR")
			return nil, fmt.Errorf("generate QR: %w", err)
		}

		candidate := &model.RegistrationModel{
			RegistrationTicketID:         ticketID,
			RegistrationEventID:          ev.EventID,
			RegistrationUserID:           user.UserID,
			RegistrationTeamID:           payload.TeamID,
			RegistrationStatus:           constants.RegistrationStatusRegistered,
			RegistrationAmountPaid:       res.AmountPaid,
			RegistrationFormResponses:    payload.FormResponses,
			RegistrationMerchandiseOrder: merchOrder,
			RegistrationQRCode:           qrRef,
		}

		err = s.DB.WithContext(ctx).Create(candidate).Error
		if err == nil {
			reg = candidate
			break
		}

		// Backstop unique (event, user): dua request lolos cek aplikasi,
		// yang kalah insert dikompensasi dan dilaporkan AlreadyRegistered.
		if helper.UniqueViolationOn(err, "event_user", "user_id") {
			s.compensate(ctx, res, "duplicate (event, user)")
			return nil, eventService.ErrAlreadyRegistered
		}

		// Tabrakan ticket_id: regenerate, jangan gagalkan operasi.
		if helper.UniqueViolationOn(err, "ticket") {
			log.Printf("[WARN] ticket_id tabrakan (%s), regenerate (attempt %d)", ticketID, attempt+1)
			continue
		}

		s.compensate(ctx, res, "persist registrasi")
		return nil, fmt.Errorf("persist registrasi: %w", err)
	}

	if reg == nil {
		s.compensate(ctx, res, "ticket_id exhausted")
		return nil, fmt.Errorf("gagal generate ticket_id unik setelah %d percobaan", ticketIDMaxAttempts)
	}

	// Side effect email: fire-and-forget, gagal cuma dicatat.
	if s.Mailer != nil {
		go func(r model.RegistrationModel) {
			if err := s.Mailer.SendTicket(user.UserEmail, user.UserName, r.RegistrationTicketID, ev.EventTitle, r.RegistrationQRCode); err != nil {
				log.Printf("[WARN] email tiket %s gagal: %v", r.RegistrationTicketID, err)
			}
		}(*reg)
	}

	return reg, nil
}

func (s *RegistrationIssuer) compensate(ctx context.Context, res *eventService.Reservation, cause string) {
	if err := s.Ledger.ReleaseSlot(ctx, res); err != nil {
		log.Printf("[ERROR] release slot gagal setelah %s: %v", cause, err)
	}
}
