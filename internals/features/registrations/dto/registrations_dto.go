package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"campushub_backend/internals/features/registrations/model"
)

// 🔹 Request pendaftaran individu
type RegisterRequest struct {
	EventID       uuid.UUID         `json:"event_id" validate:"required"`
	FormResponses datatypes.JSONMap `json:"form_responses,omitempty"`
	Merchandise   *MerchandiseOrder `json:"merchandise,omitempty"`
}

type MerchandiseOrder struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Quantity int    `json:"quantity" validate:"omitempty,gte=1"`
}

// 🔹 Response tiket pendaftaran
type RegistrationResponse struct {
	RegistrationID         uuid.UUID         `json:"registration_id"`
	RegistrationEventID    uuid.UUID         `json:"registration_event_id"`
	RegistrationUserID     uuid.UUID         `json:"registration_user_id"`
	RegistrationTeamID     *uuid.UUID        `json:"registration_team_id,omitempty"`
	RegistrationTicketID   string            `json:"registration_ticket_id"`
	RegistrationStatus     string            `json:"registration_status"`
	RegistrationAmountPaid int64             `json:"registration_amount_paid"`
	RegistrationQRCode     string            `json:"registration_qr_code"`
	FormResponses          datatypes.JSONMap `json:"form_responses,omitempty"`
	MerchandiseOrder       datatypes.JSON    `json:"merchandise_order,omitempty"`
	RegistrationAttended   bool              `json:"registration_attended"`
	RegistrationCreatedAt  time.Time         `json:"registration_created_at"`
}

// 🔄 Konversi model → response
func ToRegistrationResponse(m *model.RegistrationModel) *RegistrationResponse {
	return &RegistrationResponse{
		RegistrationID:         m.RegistrationID,
		RegistrationEventID:    m.RegistrationEventID,
		RegistrationUserID:     m.RegistrationUserID,
		RegistrationTeamID:     m.RegistrationTeamID,
		RegistrationTicketID:   m.RegistrationTicketID,
		RegistrationStatus:     m.RegistrationStatus,
		RegistrationAmountPaid: m.RegistrationAmountPaid,
		RegistrationQRCode:     m.RegistrationQRCode,
		FormResponses:          m.RegistrationFormResponses,
		MerchandiseOrder:       m.RegistrationMerchandiseOrder,
		RegistrationAttended:   m.RegistrationAttended,
		RegistrationCreatedAt:  m.RegistrationCreatedAt,
	}
}

func ToRegistrationResponses(ms []model.RegistrationModel) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(ms))
	for i := range ms {
		out = append(out, *ToRegistrationResponse(&ms[i]))
	}
	return out
}
