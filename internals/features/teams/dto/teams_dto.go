package dto

import (
	"time"

	"github.com/google/uuid"

	"campushub_backend/internals/features/teams/model"
	"campushub_backend/internals/features/teams/service"
)

// 🔹 Request pembentukan tim
type CreateTeamRequest struct {
	EventID  uuid.UUID `json:"event_id" validate:"required"`
	TeamName string    `json:"team_name" validate:"required,max=100"`
	TeamSize int       `json:"team_size" validate:"required,gte=1"`
}

// 🔹 Request join via kode undangan
type JoinTeamRequest struct {
	InviteCode string `json:"invite_code" validate:"required,len=8"`
}

type TeamMemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Position int       `json:"position"`
	JoinedAt time.Time `json:"joined_at"`
}

// 🔹 Response tim + anggota + (opsional) hasil batch registration
type TeamResponse struct {
	TeamID         uuid.UUID            `json:"team_id"`
	TeamEventID    uuid.UUID            `json:"team_event_id"`
	TeamName       string               `json:"team_name"`
	TeamLeaderID   uuid.UUID            `json:"team_leader_id"`
	TeamInviteCode string               `json:"team_invite_code"`
	TeamSize       int                  `json:"team_size"`
	TeamStatus     string               `json:"team_status"`
	Members        []TeamMemberResponse `json:"members"`
	Batch          *service.BatchResult `json:"batch,omitempty"`
}

// 🔄 Konversi outcome coordinator → response
func ToTeamResponse(o *service.TeamOutcome) *TeamResponse {
	resp := &TeamResponse{
		TeamID:         o.Team.TeamID,
		TeamEventID:    o.Team.TeamEventID,
		TeamName:       o.Team.TeamName,
		TeamLeaderID:   o.Team.TeamLeaderID,
		TeamInviteCode: o.Team.TeamInviteCode,
		TeamSize:       o.Team.TeamSize,
		TeamStatus:     o.Team.TeamStatus,
		Members:        toMemberResponses(o.Members),
		Batch:          o.Batch,
	}
	return resp
}

func toMemberResponses(ms []model.TeamMemberModel) []TeamMemberResponse {
	out := make([]TeamMemberResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, TeamMemberResponse{
			UserID:   m.TeamMemberUserID,
			Name:     m.TeamMemberName,
			Email:    m.TeamMemberEmail,
			Position: m.TeamMemberPosition,
			JoinedAt: m.TeamMemberJoinedAt,
		})
	}
	return out
}
