// file: internals/features/events/service/capacity_ledger.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campushub_backend/internals/constants"
	"campushub_backend/internals/features/events/model"
	regModel "campushub_backend/internals/features/registrations/model"
	userModel "campushub_backend/internals/features/users/model"
	helper "campushub_backend/internals/helpers"
)

// Penolakan bernama jalur registrasi. Semua outcome bisnis yang diharapkan,
// bukan error sistem — caller memetakan ke pesan user.
var (
	ErrEventNotFound      = errors.New("event tidak ditemukan")
	ErrRegistrationClosed = errors.New("registrasi belum/sudah ditutup")
	ErrDeadlinePassed     = errors.New("deadline registrasi sudah lewat")
	ErrCapacityFull       = errors.New("kuota registrasi penuh")
	ErrOutOfStock         = errors.New("stok merchandise tidak cukup")
	ErrNotEligible        = errors.New("participant tidak memenuhi eligibility event")
	ErrAlreadyRegistered  = errors.New("sudah terdaftar di event ini")
)

// Reservation adalah klaim provisional atas satu slot (dan stok) yang sudah
// ter-commit di counter event tapi belum punya record registrasi.
type Reservation struct {
	Token      uuid.UUID
	EventID    uuid.UUID
	UserID     uuid.UUID
	AmountPaid int64
	Quantity   int

	released bool
}

// CapacityLedger menjaga invariant kapasitas & stok per event.
// Semua pergerakan counter lewat satu guarded UPDATE — tidak pernah
// read-modify-write dua langkah.
type CapacityLedger struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewCapacityLedger(db *gorm.DB) *CapacityLedger {
	return &CapacityLedger{DB: db, Now: time.Now}
}

func (l *CapacityLedger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// ReserveSlot mengecek precondition berurutan (tiap kegagalan = penolakan
// bernama), lalu mengklaim slot secara atomik: current+1, revenue+fee,
// stok-qty (merchandise), form_locked=true (normal) — semua dalam SATU
// UPDATE dengan guard di WHERE. Row lock menserialisasi per event; guard
// pada WHERE tetap otoritas terakhir terhadap overbooking.
func (l *CapacityLedger) ReserveSlot(ctx context.Context, eventID uuid.UUID, user *userModel.UserModel, quantity int) (*Reservation, error) {
	now := l.now()

	var res *Reservation
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev model.EventModel
		if err := helper.LockForUpdate(tx).
			Where("event_id = ?", eventID).
			First(&ev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		qty := quantity
		if ev.EventType == constants.EventTypeMerchandise {
			if qty < 1 {
				qty = 1
			}
		} else {
			qty = 0
		}

		// Urutan precondition sesuai kontrak (tiap satu alasan penolakan sendiri).
		if EffectiveStatus(&ev, now) != constants.EventStatusPublished {
			return ErrRegistrationClosed
		}
		if now.After(ev.EventRegistrationDeadline) {
			return ErrDeadlinePassed
		}
		if ev.EventCurrentRegistrations >= ev.EventRegistrationLimit {
			return ErrCapacityFull
		}
		if ev.EventType == constants.EventTypeMerchandise && ev.EventStockQuantity < qty {
			return ErrOutOfStock
		}
		if !constants.EligibilityAllows(ev.EventEligibility, user.UserParticipantType) {
			return ErrNotEligible
		}

		var existing int64
		if err := tx.Model(&regModel.RegistrationModel{}).
			Where("registration_event_id = ? AND registration_user_id = ?", eventID, user.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		updates := map[string]interface{}{
			"event_current_registrations": gorm.Expr("event_current_registrations + 1"),
			"event_total_revenue":         gorm.Expr("event_total_revenue + ?", ev.EventRegistrationFee),
		}
		claim := tx.Model(&model.EventModel{}).
			Where("event_id = ? AND event_current_registrations < event_registration_limit", eventID)

		switch ev.EventType {
		case constants.EventTypeMerchandise:
			claim = claim.Where("event_stock_quantity >= ?", qty)
			updates["event_stock_quantity"] = gorm.Expr("event_stock_quantity - ?", qty)
		case constants.EventTypeNormal:
			// registrasi pertama mengunci form; ikut UPDATE yang sama supaya
			// flip 0→1 atomik dengan kenaikan counter
			updates["event_form_locked"] = true
		}

		claimed := claim.Updates(updates)
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			if ev.EventType == constants.EventTypeMerchandise && ev.EventStockQuantity < qty {
				return ErrOutOfStock
			}
			return ErrCapacityFull
		}

		res = &Reservation{
			Token:      uuid.New(),
			EventID:    eventID,
			UserID:     user.UserID,
			AmountPaid: ev.EventRegistrationFee,
			Quantity:   qty,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReleaseSlot adalah mirror decrement untuk kompensasi kegagalan downstream
// (mis. persist registrasi gagal setelah reserve sukses). Idempotent per
// reservation: pemanggilan kedua dengan token yang sama no-op.
// form_locked sengaja tidak di-reset.
func (l *CapacityLedger) ReleaseSlot(ctx context.Context, r *Reservation) error {
	if r == nil || r.released {
		return nil
	}

	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"event_current_registrations": gorm.Expr("event_current_registrations - 1"),
			"event_total_revenue":         gorm.Expr("event_total_revenue - ?", r.AmountPaid),
		}
		if r.Quantity > 0 {
			updates["event_stock_quantity"] = gorm.Expr("event_stock_quantity + ?", r.Quantity)
		}
		return tx.Model(&model.EventModel{}).
			Where("event_id = ? AND event_current_registrations > 0", r.EventID).
			Updates(updates).Error
	})
	if err != nil {
		return err
	}
	r.released = true
	return nil
}
