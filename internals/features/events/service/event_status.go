// file: internals/features/events/service/event_status.go
package service

import (
	"time"

	"campushub_backend/internals/constants"
	"campushub_backend/internals/features/events/model"
)

// EffectiveStatus menghitung status lifecycle event dari status tersimpan +
// jam sekarang. Pure function, dihitung ulang di SETIAP read site — tidak
// pernah di-cache supaya representasi tersimpan dan turunan tidak drift.
//
// Aturan:
//   - draft / closed: status tersimpan menang (manual override / terminal)
//   - now < start              → published
//   - start ≤ now ≤ end        → ongoing
//   - now > end                → completed
func EffectiveStatus(ev *model.EventModel, now time.Time) string {
	switch ev.EventStatus {
	case constants.EventStatusDraft, constants.EventStatusClosed:
		return ev.EventStatus
	}
	if now.Before(ev.EventStartDate) {
		return constants.EventStatusPublished
	}
	if !now.After(ev.EventEndDate) {
		return constants.EventStatusOngoing
	}
	return constants.EventStatusCompleted
}
