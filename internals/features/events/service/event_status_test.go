package service

import (
	"testing"
	"time"

	"campushub_backend/internals/constants"
	"campushub_backend/internals/features/events/model"
)

func TestEffectiveStatus(t *testing.T) {
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 12, 17, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		stored string
		now    time.Time
		want   string
	}{
		{"draft menang atas waktu", constants.EventStatusDraft, start.Add(time.Hour), constants.EventStatusDraft},
		{"closed menang atas waktu", constants.EventStatusClosed, start.Add(-time.Hour), constants.EventStatusClosed},
		{"sebelum mulai", constants.EventStatusPublished, start.Add(-time.Hour), constants.EventStatusPublished},
		{"tepat saat mulai", constants.EventStatusPublished, start, constants.EventStatusOngoing},
		{"di tengah event", constants.EventStatusPublished, start.Add(24 * time.Hour), constants.EventStatusOngoing},
		{"tepat saat selesai", constants.EventStatusPublished, end, constants.EventStatusOngoing},
		{"setelah selesai", constants.EventStatusPublished, end.Add(time.Minute), constants.EventStatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := &model.EventModel{
				EventStatus:    tc.stored,
				EventStartDate: start,
				EventEndDate:   end,
			}
			if got := EffectiveStatus(ev, tc.now); got != tc.want {
				t.Fatalf("EffectiveStatus = %q, want %q", got, tc.want)
			}
		})
	}
}
