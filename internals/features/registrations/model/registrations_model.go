package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RegistrationModel struct {
	RegistrationID       uuid.UUID `gorm:"column:registration_id;type:uuid;primaryKey" json:"registration_id"`
	RegistrationTicketID string    `gorm:"column:registration_ticket_id;type:varchar(40);not null;uniqueIndex:uq_registrations_ticket_id" json:"registration_ticket_id"`

	// Unique constraint (event, user) di level store adalah pertahanan utama
	// terhadap registrasi ganda saat request concurrent.
	RegistrationEventID uuid.UUID `gorm:"column:registration_event_id;type:uuid;not null;uniqueIndex:uq_registrations_event_user;index:idx_registrations_event_id" json:"registration_event_id"`
	RegistrationUserID  uuid.UUID `gorm:"column:registration_user_id;type:uuid;not null;uniqueIndex:uq_registrations_event_user" json:"registration_user_id"`

	// Terisi hanya untuk registrasi hasil batch tim.
	RegistrationTeamID *uuid.UUID `gorm:"column:registration_team_id;type:uuid;index:idx_registrations_team_id" json:"registration_team_id,omitempty"`

	RegistrationStatus string `gorm:"column:registration_status;type:varchar(20);not null;default:'pending'" json:"registration_status"`

	// Snapshot fee saat reservasi — perubahan fee event tidak pernah
	// retroaktif ke tiket yang sudah terbit.
	RegistrationAmountPaid int64 `gorm:"column:registration_amount_paid;type:bigint;not null;default:0" json:"registration_amount_paid"`

	RegistrationFormResponses    datatypes.JSONMap `gorm:"column:registration_form_responses;type:jsonb"    json:"registration_form_responses,omitempty"`
	RegistrationMerchandiseOrder datatypes.JSON    `gorm:"column:registration_merchandise_order;type:jsonb" json:"registration_merchandise_order,omitempty"`

	// Opaque image reference dari QR collaborator.
	RegistrationQRCode string `gorm:"column:registration_qr_code;type:text" json:"registration_qr_code"`

	RegistrationAttended       bool       `gorm:"column:registration_attended;type:bool;not null;default:false" json:"registration_attended"`
	RegistrationAttendanceTime *time.Time `gorm:"column:registration_attendance_time" json:"registration_attendance_time,omitempty"`

	RegistrationCreatedAt time.Time `gorm:"column:registration_created_at;autoCreateTime" json:"registration_created_at"`
	RegistrationUpdatedAt time.Time `gorm:"column:registration_updated_at;autoUpdateTime" json:"registration_updated_at"`
}

func (RegistrationModel) TableName() string {
	return "registrations"
}

func (r *RegistrationModel) BeforeCreate(tx *gorm.DB) error {
	if r.RegistrationID == uuid.Nil {
		r.RegistrationID = uuid.New()
	}
	return nil
}

// MerchandiseOrder adalah bentuk payload registration_merchandise_order.
type MerchandiseOrder struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Quantity int    `json:"quantity"`
}
