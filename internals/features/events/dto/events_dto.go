package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"campushub_backend/internals/constants"
	"campushub_backend/internals/features/events/model"
)

// 🔹 Request untuk membuat event
type EventRequest struct {
	EventTitle       string `json:"event_title" validate:"required,max=255"`
	EventDescription string `json:"event_description"`
	EventLocation    string `json:"event_location" validate:"max=255"`

	EventType        string `json:"event_type" validate:"required,oneof=normal merchandise team"`
	EventEligibility string `json:"event_eligibility" validate:"omitempty,oneof=iiit-only non-iiit-only all"`

	EventRegistrationDeadline time.Time `json:"event_registration_deadline" validate:"required"`
	EventStartDate            time.Time `json:"event_start_date" validate:"required"`
	EventEndDate              time.Time `json:"event_end_date" validate:"required"`

	EventRegistrationLimit int   `json:"event_registration_limit" validate:"gte=0"`
	EventRegistrationFee   int64 `json:"event_registration_fee" validate:"gte=0"`

	// Varian normal
	EventFormFields datatypes.JSON `json:"event_form_fields,omitempty"`

	// Varian merchandise
	EventStockQuantity     int            `json:"event_stock_quantity" validate:"gte=0"`
	EventMerchandiseDetail datatypes.JSON `json:"event_merchandise_detail,omitempty"`

	// Varian team
	EventMinTeamSize int `json:"event_min_team_size" validate:"gte=0"`
	EventMaxTeamSize int `json:"event_max_team_size" validate:"gte=0"`
}

// ValidateVariant menolak payload yang tidak legal untuk tipe event-nya,
// supaya state ilegal (mis. stok di event tim) tidak pernah masuk store.
func (r *EventRequest) ValidateVariant() error {
	switch r.EventType {
	case constants.EventTypeNormal:
		if r.EventStockQuantity != 0 || len(r.EventMerchandiseDetail) > 0 {
			return fmt.Errorf("event normal tidak boleh membawa detail merchandise")
		}
		if r.EventMinTeamSize != 0 || r.EventMaxTeamSize != 0 {
			return fmt.Errorf("event normal tidak boleh membawa detail tim")
		}
	case constants.EventTypeMerchandise:
		if r.EventMinTeamSize != 0 || r.EventMaxTeamSize != 0 {
			return fmt.Errorf("event merchandise tidak boleh membawa detail tim")
		}
		if len(r.EventFormFields) > 0 {
			return fmt.Errorf("event merchandise tidak memakai form fields")
		}
	case constants.EventTypeTeam:
		if r.EventStockQuantity != 0 || len(r.EventMerchandiseDetail) > 0 {
			return fmt.Errorf("event tim tidak boleh membawa detail merchandise")
		}
		if len(r.EventFormFields) > 0 {
			return fmt.Errorf("event tim tidak memakai form fields")
		}
		if r.EventMinTeamSize < 2 {
			return fmt.Errorf("min_team_size event tim minimal 2")
		}
		if r.EventMinTeamSize > r.EventMaxTeamSize {
			return fmt.Errorf("min_team_size tidak boleh melebihi max_team_size")
		}
	}
	return nil
}

// 🔄 Konversi dari request → model (selalu lahir sebagai draft)
func (r *EventRequest) ToModel(organizerID uuid.UUID) *model.EventModel {
	eligibility := r.EventEligibility
	if eligibility == "" {
		eligibility = constants.EligibilityAll
	}
	return &model.EventModel{
		EventOrganizerID:          organizerID,
		EventTitle:                r.EventTitle,
		EventDescription:          r.EventDescription,
		EventLocation:             r.EventLocation,
		EventType:                 r.EventType,
		EventEligibility:          eligibility,
		EventRegistrationDeadline: r.EventRegistrationDeadline,
		EventStartDate:            r.EventStartDate,
		EventEndDate:              r.EventEndDate,
		EventRegistrationLimit:    r.EventRegistrationLimit,
		EventRegistrationFee:      r.EventRegistrationFee,
		EventStatus:               constants.EventStatusDraft,
		EventFormFields:           r.EventFormFields,
		EventStockQuantity:        r.EventStockQuantity,
		EventMerchandiseDetail:    r.EventMerchandiseDetail,
		EventMinTeamSize:          r.EventMinTeamSize,
		EventMaxTeamSize:          r.EventMaxTeamSize,
	}
}

// 🔹 Response untuk menampilkan event
type EventResponse struct {
	EventID          uuid.UUID `json:"event_id"`
	EventOrganizerID uuid.UUID `json:"event_organizer_id"`
	EventTitle       string    `json:"event_title"`
	EventDescription string    `json:"event_description"`
	EventLocation    string    `json:"event_location"`

	EventType        string `json:"event_type"`
	EventEligibility string `json:"event_eligibility"`

	EventRegistrationDeadline time.Time `json:"event_registration_deadline"`
	EventStartDate            time.Time `json:"event_start_date"`
	EventEndDate              time.Time `json:"event_end_date"`

	EventRegistrationLimit    int   `json:"event_registration_limit"`
	EventCurrentRegistrations int   `json:"event_current_registrations"`
	EventRegistrationFee      int64 `json:"event_registration_fee"`

	// Status tersimpan vs efektif: keduanya dikirim supaya UI tidak perlu
	// menghitung ulang aturan waktu.
	EventStatus          string `json:"event_status"`
	EventEffectiveStatus string `json:"event_effective_status"`

	EventFormFields datatypes.JSON `json:"event_form_fields,omitempty"`
	EventFormLocked bool           `json:"event_form_locked"`

	EventStockQuantity     int            `json:"event_stock_quantity,omitempty"`
	EventMerchandiseDetail datatypes.JSON `json:"event_merchandise_detail,omitempty"`

	EventMinTeamSize int `json:"event_min_team_size,omitempty"`
	EventMaxTeamSize int `json:"event_max_team_size,omitempty"`

	EventCreatedAt string `json:"event_created_at"`
}

// 🔄 Konversi dari model → response (effective status dihitung caller)
func ToEventResponse(m *model.EventModel, effectiveStatus string) *EventResponse {
	return &EventResponse{
		EventID:                   m.EventID,
		EventOrganizerID:          m.EventOrganizerID,
		EventTitle:                m.EventTitle,
		EventDescription:          m.EventDescription,
		EventLocation:             m.EventLocation,
		EventType:                 m.EventType,
		EventEligibility:          m.EventEligibility,
		EventRegistrationDeadline: m.EventRegistrationDeadline,
		EventStartDate:            m.EventStartDate,
		EventEndDate:              m.EventEndDate,
		EventRegistrationLimit:    m.EventRegistrationLimit,
		EventCurrentRegistrations: m.EventCurrentRegistrations,
		EventRegistrationFee:      m.EventRegistrationFee,
		EventStatus:               m.EventStatus,
		EventEffectiveStatus:      effectiveStatus,
		EventFormFields:           m.EventFormFields,
		EventFormLocked:           m.EventFormLocked,
		EventStockQuantity:        m.EventStockQuantity,
		EventMerchandiseDetail:    m.EventMerchandiseDetail,
		EventMinTeamSize:          m.EventMinTeamSize,
		EventMaxTeamSize:          m.EventMaxTeamSize,
		EventCreatedAt:            m.EventCreatedAt.Format("2006-01-02 15:04:05"),
	}
}
