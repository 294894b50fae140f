package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// UserModel merepresentasikan tabel users. Akun dikelola layanan auth
// terpisah; engine ini hanya membaca role & participant_type untuk gating.
type UserModel struct {
	UserID              uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserName            string    `gorm:"column:user_name;type:varchar(100);not null"                   json:"user_name"`
	UserEmail           string    `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex:uq_users_email" json:"user_email"`
	UserRole            string    `gorm:"column:user_role;type:varchar(20);not null;default:'participant'" json:"user_role"`
	UserParticipantType string    `gorm:"column:user_participant_type;type:varchar(20);not null;default:'iiit'" json:"user_participant_type"`

	// Daftar club yang di-follow (dipakai layer presentasi, bukan engine)
	UserFollowedClubs datatypes.JSON `gorm:"column:user_followed_clubs;type:jsonb" json:"user_followed_clubs,omitempty"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
