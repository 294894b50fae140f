package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventModel struct {
	EventID          uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventOrganizerID uuid.UUID `gorm:"column:event_organizer_id;type:uuid;not null;index:idx_events_organizer_id" json:"event_organizer_id"`
	EventTitle       string    `gorm:"column:event_title;type:varchar(255);not null"  json:"event_title"`
	EventDescription string    `gorm:"column:event_description;type:text"             json:"event_description"`
	EventLocation    string    `gorm:"column:event_location;type:varchar(255)"        json:"event_location"`

	// Discriminant: normal | merchandise | team. Payload varian di bawah
	// hanya legal sesuai tipenya (divalidasi saat create).
	EventType        string `gorm:"column:event_type;type:varchar(20);not null"        json:"event_type"`
	EventEligibility string `gorm:"column:event_eligibility;type:varchar(20);not null;default:'all'" json:"event_eligibility"`

	EventRegistrationDeadline time.Time `gorm:"column:event_registration_deadline;not null" json:"event_registration_deadline"`
	EventStartDate            time.Time `gorm:"column:event_start_date;not null"            json:"event_start_date"`
	EventEndDate              time.Time `gorm:"column:event_end_date;not null"              json:"event_end_date"`

	// Counter kapasitas. Invariant: 0 ≤ current ≤ limit, dijaga lewat
	// guarded UPDATE di CapacityLedger, bukan read-modify-write.
	EventRegistrationLimit    int   `gorm:"column:event_registration_limit;type:int;not null;default:0"     json:"event_registration_limit"`
	EventCurrentRegistrations int   `gorm:"column:event_current_registrations;type:int;not null;default:0"  json:"event_current_registrations"`
	EventRegistrationFee      int64 `gorm:"column:event_registration_fee;type:bigint;not null;default:0"    json:"event_registration_fee"`
	EventTotalRevenue         int64 `gorm:"column:event_total_revenue;type:bigint;not null;default:0"       json:"event_total_revenue"`

	// Status TERSIMPAN (draft/published/closed ditulis manual; ongoing &
	// completed tidak pernah dipersist — hasil hitung EffectiveStatus).
	EventStatus string `gorm:"column:event_status;type:varchar(20);not null;default:'draft'" json:"event_status"`

	// Normal event: definisi form + lock setelah registrasi pertama.
	EventFormFields datatypes.JSON `gorm:"column:event_form_fields;type:jsonb" json:"event_form_fields,omitempty"`
	EventFormLocked bool           `gorm:"column:event_form_locked;type:bool;not null;default:false" json:"event_form_locked"`

	// Merchandise event: stok dipisah jadi kolom sendiri supaya bisa
	// didekremen atomik satu UPDATE dengan counter registrasi; atribut
	// lain (ukuran/warna) tetap jsonb.
	EventStockQuantity     int            `gorm:"column:event_stock_quantity;type:int;not null;default:0" json:"event_stock_quantity"`
	EventMerchandiseDetail datatypes.JSON `gorm:"column:event_merchandise_detail;type:jsonb" json:"event_merchandise_detail,omitempty"`

	// Team event: batas ukuran tim.
	EventMinTeamSize int `gorm:"column:event_min_team_size;type:int;not null;default:0" json:"event_min_team_size"`
	EventMaxTeamSize int `gorm:"column:event_max_team_size;type:int;not null;default:0" json:"event_max_team_size"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index"          json:"event_deleted_at,omitempty"`
}

func (EventModel) TableName() string {
	return "events"
}

func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
