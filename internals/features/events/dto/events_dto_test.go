package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"campushub_backend/internals/constants"
)

func baseRequest(eventType string) *EventRequest {
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return &EventRequest{
		EventTitle:                "Open House",
		EventType:                 eventType,
		EventRegistrationDeadline: start.Add(-24 * time.Hour),
		EventStartDate:            start,
		EventEndDate:              start.Add(8 * time.Hour),
		EventRegistrationLimit:    100,
	}
}

func TestValidateVariant(t *testing.T) {
	t.Run("normal dengan stok ditolak", func(t *testing.T) {
		r := baseRequest(constants.EventTypeNormal)
		r.EventStockQuantity = 5
		if err := r.ValidateVariant(); err == nil {
			t.Fatal("stok di event normal harus ditolak")
		}
	})

	t.Run("team dengan merchandise ditolak", func(t *testing.T) {
		r := baseRequest(constants.EventTypeTeam)
		r.EventMinTeamSize, r.EventMaxTeamSize = 2, 4
		r.EventMerchandiseDetail = datatypes.JSON(`{"sizes":["M"]}`)
		if err := r.ValidateVariant(); err == nil {
			t.Fatal("merchandise di event tim harus ditolak")
		}
	})

	t.Run("team min di bawah 2 ditolak", func(t *testing.T) {
		r := baseRequest(constants.EventTypeTeam)
		r.EventMinTeamSize, r.EventMaxTeamSize = 1, 4
		if err := r.ValidateVariant(); err == nil {
			t.Fatal("min_team_size 1 harus ditolak")
		}
	})

	t.Run("team min melebihi max ditolak", func(t *testing.T) {
		r := baseRequest(constants.EventTypeTeam)
		r.EventMinTeamSize, r.EventMaxTeamSize = 4, 2
		if err := r.ValidateVariant(); err == nil {
			t.Fatal("min > max harus ditolak")
		}
	})

	t.Run("merchandise valid", func(t *testing.T) {
		r := baseRequest(constants.EventTypeMerchandise)
		r.EventStockQuantity = 50
		r.EventMerchandiseDetail = datatypes.JSON(`{"sizes":["M","L"]}`)
		if err := r.ValidateVariant(); err != nil {
			t.Fatalf("merchandise valid ditolak: %v", err)
		}
	})
}

func TestToModelDefaults(t *testing.T) {
	r := baseRequest(constants.EventTypeNormal)
	organizer := uuid.New()

	m := r.ToModel(organizer)
	if m.EventStatus != constants.EventStatusDraft {
		t.Fatalf("event baru harus draft, got %q", m.EventStatus)
	}
	if m.EventEligibility != constants.EligibilityAll {
		t.Fatalf("eligibility kosong harus default all, got %q", m.EventEligibility)
	}
	if m.EventOrganizerID != organizer {
		t.Fatal("organizer tidak terset")
	}
}
