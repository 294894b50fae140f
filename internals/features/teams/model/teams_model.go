package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamModel struct {
	TeamID      uuid.UUID `gorm:"column:team_id;type:uuid;primaryKey" json:"team_id"`
	TeamEventID uuid.UUID `gorm:"column:team_event_id;type:uuid;not null;index:idx_teams_event_id" json:"team_event_id"`
	TeamName    string    `gorm:"column:team_name;type:varchar(100);not null" json:"team_name"`

	TeamLeaderID uuid.UUID `gorm:"column:team_leader_id;type:uuid;not null" json:"team_leader_id"`

	// Kode undangan dibagikan leader; unik global (constraint store).
	TeamInviteCode string `gorm:"column:team_invite_code;type:varchar(12);not null;uniqueIndex:uq_teams_invite_code" json:"team_invite_code"`

	// Target jumlah anggota (dalam [min,max] event).
	TeamSize int `gorm:"column:team_size;type:int;not null" json:"team_size"`

	// incomplete → complete → registered, tidak pernah mundur.
	TeamStatus string `gorm:"column:team_status;type:varchar(20);not null;default:'incomplete'" json:"team_status"`

	TeamCreatedAt time.Time      `gorm:"column:team_created_at;autoCreateTime" json:"team_created_at"`
	TeamUpdatedAt time.Time      `gorm:"column:team_updated_at;autoUpdateTime" json:"team_updated_at"`
	TeamDeletedAt gorm.DeletedAt `gorm:"column:team_deleted_at;index"          json:"team_deleted_at,omitempty"`
}

func (TeamModel) TableName() string {
	return "teams"
}

func (t *TeamModel) BeforeCreate(tx *gorm.DB) error {
	if t.TeamID == uuid.Nil {
		t.TeamID = uuid.New()
	}
	return nil
}
