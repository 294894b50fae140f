// file: internals/features/teams/service/team_coordinator.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "campushub_backend/internals/features/events/model"
	eventService "campushub_backend/internals/features/events/service"
	regModel "campushub_backend/internals/features/registrations/model"
	regService "campushub_backend/internals/features/registrations/service"
	"campushub_backend/internals/features/teams/model"
	userModel "campushub_backend/internals/features/users/model"

	"campushub_backend/internals/constants"
	helper "campushub_backend/internals/helpers"
)

// Penolakan bernama jalur tim.
var (
	ErrWrongEventType       = errors.New("event ini bukan event tim")
	ErrInvalidTeamSize      = errors.New("ukuran tim di luar batas event")
	ErrAlreadyOnATeam       = errors.New("sudah tergabung di tim lain untuk event ini")
	ErrInvalidCode          = errors.New("kode undangan tidak valid")
	ErrTeamFull             = errors.New("tim sudah penuh")
	ErrAlreadyMember        = errors.New("sudah menjadi anggota tim ini")
	ErrAlreadyOnAnotherTeam = errors.New("sudah tergabung di tim lain untuk event yang sama")
	ErrTeamNotFound         = errors.New("tim tidak ditemukan")
	ErrTeamNotComplete      = errors.New("tim belum penuh, batch registration belum bisa jalan")
)

// Status per anggota di hasil batch.
const (
	MemberRegistered        = "registered"
	MemberAlreadyRegistered = "already_registered"
	MemberFailed            = "failed"
)

const inviteCodeMaxAttempts = 3

type MemberResult struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	TicketID string    `json:"ticket_id,omitempty"`
	Status   string    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
}

// BatchResult melaporkan outcome per anggota — partial success HARUS
// terlihat caller, bukan disembunyikan di balik satu error.
type BatchResult struct {
	TeamStatus string         `json:"team_status"`
	Members    []MemberResult `json:"members"`
}

type TeamOutcome struct {
	Team    *model.TeamModel        `json:"team"`
	Members []model.TeamMemberModel `json:"members"`
	Batch   *BatchResult            `json:"batch,omitempty"`
}

// TeamCoordinator memegang lifecycle tim: pembentukan, join via kode
// undangan, dan batch registration saat tim penuh.
type TeamCoordinator struct {
	DB     *gorm.DB
	Ledger *eventService.CapacityLedger
	Issuer *regService.RegistrationIssuer
	Now    func() time.Time
}

func NewTeamCoordinator(db *gorm.DB, ledger *eventService.CapacityLedger, issuer *regService.RegistrationIssuer) *TeamCoordinator {
	return &TeamCoordinator{DB: db, Ledger: ledger, Issuer: issuer, Now: time.Now}
}

func (s *TeamCoordinator) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateTeam membuat tim baru dengan leader sebagai anggota pertama.
// Tim solo (teamSize == 1) langsung complete dan batch registration
// dijalankan saat itu juga — tidak ada join yang akan memicunya.
func (s *TeamCoordinator) CreateTeam(ctx context.Context, eventID uuid.UUID, leader *userModel.UserModel, teamName string, teamSize int) (*TeamOutcome, error) {
	var team *model.TeamModel
	var member *model.TeamMemberModel

	for attempt := 0; attempt < inviteCodeMaxAttempts; attempt++ {
		code := newInviteCode()

		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var ev eventModel.EventModel
			if err := tx.Where("event_id = ?", eventID).First(&ev).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return eventService.ErrEventNotFound
				}
				return err
			}
			if ev.EventType != constants.EventTypeTeam {
				return ErrWrongEventType
			}
			if teamSize < ev.EventMinTeamSize || teamSize > ev.EventMaxTeamSize {
				return ErrInvalidTeamSize
			}

			var existing int64
			if err := tx.Model(&model.TeamMemberModel{}).
				Where("team_member_event_id = ? AND team_member_user_id = ?", eventID, leader.UserID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return ErrAlreadyOnATeam
			}

			status := constants.TeamStatusIncomplete
			if teamSize == 1 {
				status = constants.TeamStatusComplete
			}

			t := &model.TeamModel{
				TeamEventID:    eventID,
				TeamName:       teamName,
				TeamLeaderID:   leader.UserID,
				TeamInviteCode: code,
				TeamSize:       teamSize,
				TeamStatus:     status,
			}
			if err := tx.Create(t).Error; err != nil {
				return err
			}

			m := &model.TeamMemberModel{
				TeamMemberTeamID:   t.TeamID,
				TeamMemberEventID:  eventID,
				TeamMemberUserID:   leader.UserID,
				TeamMemberName:     leader.UserName,
				TeamMemberEmail:    leader.UserEmail,
				TeamMemberPosition: 0,
				TeamMemberJoinedAt: s.now(),
			}
			if err := tx.Create(m).Error; err != nil {
				return err
			}

			team, member = t, m
			return nil
		})

		if err == nil {
			break
		}
		if helper.UniqueViolationOn(err, "invite_code") {
			log.Printf("[WARN] invite code tabrakan (%s), regenerate", code)
			continue
		}
		if helper.UniqueViolationOn(err, "event_user", "user_id") {
			// backstop store: leader keburu join tim lain di request paralel
			return nil, ErrAlreadyOnATeam
		}
		return nil, err
	}
	if team == nil {
		return nil, fmt.Errorf("gagal generate invite code unik setelah %d percobaan", inviteCodeMaxAttempts)
	}

	outcome := &TeamOutcome{Team: team, Members: []model.TeamMemberModel{*member}}

	if team.TeamSize == 1 {
		batch, err := s.RegisterTeam(ctx, team.TeamID)
		outcome.Batch = batch
		if batch != nil {
			team.TeamStatus = batch.TeamStatus
		}
		return outcome, err
	}
	return outcome, nil
}

// JoinTeam menambahkan user ke tim lewat kode undangan. Join yang membuat
// tim penuh memicu batch registration secara SINKRON — caller menerima
// status akhir tim + hasil per anggota di response yang sama.
func (s *TeamCoordinator) JoinTeam(ctx context.Context, inviteCode string, user *userModel.UserModel) (*TeamOutcome, error) {
	var team model.TeamModel
	filled := false

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock baris tim: join untuk tim yang sama diserialisasi di sini.
		if err := helper.LockForUpdate(tx).
			Where("team_invite_code = ?", strings.TrimSpace(inviteCode)).
			First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCode
			}
			return err
		}

		if team.TeamStatus == constants.TeamStatusRegistered {
			return ErrTeamFull
		}

		var count int64
		if err := tx.Model(&model.TeamMemberModel{}).
			Where("team_member_team_id = ?", team.TeamID).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= team.TeamSize {
			return ErrTeamFull
		}

		var sameTeam int64
		if err := tx.Model(&model.TeamMemberModel{}).
			Where("team_member_team_id = ? AND team_member_user_id = ?", team.TeamID, user.UserID).
			Count(&sameTeam).Error; err != nil {
			return err
		}
		if sameTeam > 0 {
			return ErrAlreadyMember
		}

		var sameEvent int64
		if err := tx.Model(&model.TeamMemberModel{}).
			Where("team_member_event_id = ? AND team_member_user_id = ?", team.TeamEventID, user.UserID).
			Count(&sameEvent).Error; err != nil {
			return err
		}
		if sameEvent > 0 {
			return ErrAlreadyOnAnotherTeam
		}

		m := &model.TeamMemberModel{
			TeamMemberTeamID:   team.TeamID,
			TeamMemberEventID:  team.TeamEventID,
			TeamMemberUserID:   user.UserID,
			TeamMemberName:     user.UserName,
			TeamMemberEmail:    user.UserEmail,
			TeamMemberPosition: int(count),
			TeamMemberJoinedAt: s.now(),
		}
		if err := tx.Create(m).Error; err != nil {
			if helper.UniqueViolationOn(err, "event_user", "user_id") {
				// lolos cek aplikasi tapi kalah race lintas-tim; store menang
				return ErrAlreadyOnAnotherTeam
			}
			return err
		}

		if int(count)+1 == team.TeamSize {
			// incomplete → complete; guard status supaya tidak pernah mundur
			if err := tx.Model(&model.TeamModel{}).
				Where("team_id = ? AND team_status = ?", team.TeamID, constants.TeamStatusIncomplete).
				Update("team_status", constants.TeamStatusComplete).Error; err != nil {
				return err
			}
			team.TeamStatus = constants.TeamStatusComplete
			filled = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := &TeamOutcome{Team: &team}
	if err := s.DB.WithContext(ctx).
		Where("team_member_team_id = ?", team.TeamID).
		Order("team_member_position ASC").
		Find(&outcome.Members).Error; err != nil {
		return nil, err
	}

	if !filled {
		return outcome, nil
	}

	batch, batchErr := s.RegisterTeam(ctx, team.TeamID)
	outcome.Batch = batch
	if batch != nil {
		team.TeamStatus = batch.TeamStatus
	}
	return outcome, batchErr
}

// RegisterTeam menjalankan batch registration untuk semua anggota tim,
// urut sesuai join. Idempotent: anggota yang sudah punya registrasi
// di-skip, jadi aman di-retry (juga dipakai endpoint admin untuk recovery
// setelah partial failure). Kegagalan satu anggota TIDAK membatalkan tiket
// anggota lain — partial success adalah kebijakan yang disengaja; tim
// tetap complete dan error pertama dinaikkan ke caller.
func (s *TeamCoordinator) RegisterTeam(ctx context.Context, teamID uuid.UUID) (*BatchResult, error) {
	var team model.TeamModel
	if err := s.DB.WithContext(ctx).Where("team_id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team.TeamStatus == constants.TeamStatusIncomplete {
		return nil, ErrTeamNotComplete
	}

	var ev eventModel.EventModel
	if err := s.DB.WithContext(ctx).Where("event_id = ?", team.TeamEventID).First(&ev).Error; err != nil {
		return nil, err
	}

	var members []model.TeamMemberModel
	if err := s.DB.WithContext(ctx).
		Where("team_member_team_id = ?", teamID).
		Order("team_member_position ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	result := &BatchResult{TeamStatus: team.TeamStatus}
	var firstErr error
	allRegistered := true

	for _, m := range members {
		mr := MemberResult{UserID: m.TeamMemberUserID, Name: m.TeamMemberName}

		// Skip kalau sudah punya registrasi — kunci idempotensi batch.
		var existing regModel.RegistrationModel
		err := s.DB.WithContext(ctx).
			Where("registration_event_id = ? AND registration_user_id = ?", ev.EventID, m.TeamMemberUserID).
			First(&existing).Error
		if err == nil {
			mr.Status = MemberAlreadyRegistered
			mr.TicketID = existing.RegistrationTicketID
			result.Members = append(result.Members, mr)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, err
		}

		var u userModel.UserModel
		if err := s.DB.WithContext(ctx).Where("user_id = ?", m.TeamMemberUserID).First(&u).Error; err != nil {
			mr.Status = MemberFailed
			mr.Reason = "user tidak ditemukan"
			result.Members = append(result.Members, mr)
			allRegistered = false
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		// Jalur kapasitas SAMA dengan registrasi individual — satu sumber
		// kebenaran untuk aritmetika kuota.
		res, err := s.Ledger.ReserveSlot(ctx, ev.EventID, &u, 0)
		if err != nil {
			mr.Status = MemberFailed
			mr.Reason = err.Error()
			result.Members = append(result.Members, mr)
			allRegistered = false
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		teamRef := team.TeamID
		reg, err := s.Issuer.Issue(ctx, &ev, &u, res, regService.IssuePayload{TeamID: &teamRef})
		if err != nil {
			mr.Status = MemberFailed
			mr.Reason = err.Error()
			result.Members = append(result.Members, mr)
			allRegistered = false
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		mr.Status = MemberRegistered
		mr.TicketID = reg.RegistrationTicketID
		result.Members = append(result.Members, mr)
	}

	if allRegistered && len(members) > 0 {
		// complete → registered hanya kalau SEMUA anggota ber-registrasi
		if err := s.DB.WithContext(ctx).Model(&model.TeamModel{}).
			Where("team_id = ? AND team_status = ?", teamID, constants.TeamStatusComplete).
			Update("team_status", constants.TeamStatusRegistered).Error; err != nil {
			return result, err
		}
		result.TeamStatus = constants.TeamStatusRegistered
	}

	return result, firstErr
}
