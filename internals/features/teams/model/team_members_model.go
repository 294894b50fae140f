package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamMemberModel: satu baris per anggota. Unique (event, user) di store
// menegakkan "satu user maksimal satu tim per event" — cek aplikasi saja
// tidak cukup saat dua join concurrent lolos existence check bersamaan.
type TeamMemberModel struct {
	TeamMemberID     uuid.UUID `gorm:"column:team_member_id;type:uuid;primaryKey" json:"team_member_id"`
	TeamMemberTeamID uuid.UUID `gorm:"column:team_member_team_id;type:uuid;not null;index:idx_team_members_team_id" json:"team_member_team_id"`

	TeamMemberEventID uuid.UUID `gorm:"column:team_member_event_id;type:uuid;not null;uniqueIndex:uq_team_members_event_user" json:"team_member_event_id"`
	TeamMemberUserID  uuid.UUID `gorm:"column:team_member_user_id;type:uuid;not null;uniqueIndex:uq_team_members_event_user" json:"team_member_user_id"`

	TeamMemberName  string `gorm:"column:team_member_name;type:varchar(100);not null" json:"team_member_name"`
	TeamMemberEmail string `gorm:"column:team_member_email;type:varchar(255);not null" json:"team_member_email"`

	// 0 = leader; urutan join dipakai batch registration.
	TeamMemberPosition int       `gorm:"column:team_member_position;type:int;not null;default:0" json:"team_member_position"`
	TeamMemberJoinedAt time.Time `gorm:"column:team_member_joined_at;not null" json:"team_member_joined_at"`
}

func (TeamMemberModel) TableName() string {
	return "team_members"
}

func (m *TeamMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeamMemberID == uuid.Nil {
		m.TeamMemberID = uuid.New()
	}
	return nil
}
