package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campushub_backend/internals/constants"
	"campushub_backend/internals/features/events/model"
	regModel "campushub_backend/internals/features/registrations/model"
	userModel "campushub_backend/internals/features/users/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&model.EventModel{},
		&regModel.RegistrationModel{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

var testClock = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestLedger(db *gorm.DB) *CapacityLedger {
	l := NewCapacityLedger(db)
	l.Now = func() time.Time { return testClock }
	return l
}

func seedUser(t *testing.T, db *gorm.DB, participantType string) *userModel.UserModel {
	t.Helper()
	u := &userModel.UserModel{
		UserName:            "Peserta " + uuid.NewString()[:6],
		UserEmail:           uuid.NewString()[:8] + "@test.local",
		UserRole:            constants.RoleParticipant,
		UserParticipantType: participantType,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedEvent(t *testing.T, db *gorm.DB, mut func(*model.EventModel)) *model.EventModel {
	t.Helper()
	ev := &model.EventModel{
		EventOrganizerID:          uuid.New(),
		EventTitle:                "Technica Expo",
		EventType:                 constants.EventTypeNormal,
		EventEligibility:          constants.EligibilityAll,
		EventRegistrationDeadline: testClock.Add(24 * time.Hour),
		EventStartDate:            testClock.Add(48 * time.Hour),
		EventEndDate:              testClock.Add(72 * time.Hour),
		EventRegistrationLimit:    10,
		EventRegistrationFee:      50000,
		EventStatus:               constants.EventStatusPublished,
	}
	if mut != nil {
		mut(ev)
	}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}

func reloadEvent(t *testing.T, db *gorm.DB, id uuid.UUID) *model.EventModel {
	t.Helper()
	var ev model.EventModel
	if err := db.Where("event_id = ?", id).First(&ev).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	return &ev
}

func TestReserveSlotIncrementsCounters(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, nil)
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	res, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
	if err != nil {
		t.Fatalf("ReserveSlot: %v", err)
	}
	if res.AmountPaid != 50000 {
		t.Fatalf("AmountPaid = %d, want 50000", res.AmountPaid)
	}

	got := reloadEvent(t, db, ev.EventID)
	if got.EventCurrentRegistrations != 1 {
		t.Fatalf("current = %d, want 1", got.EventCurrentRegistrations)
	}
	if got.EventTotalRevenue != 50000 {
		t.Fatalf("revenue = %d, want 50000", got.EventTotalRevenue)
	}
	if !got.EventFormLocked {
		t.Fatal("form harus terkunci setelah registrasi pertama")
	}
}

func TestReserveSlotCapacityFull(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventRegistrationLimit = 1
		ev.EventCurrentRegistrations = 1
	})
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	_, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
	if !errors.Is(err, ErrCapacityFull) {
		t.Fatalf("err = %v, want ErrCapacityFull", err)
	}
}

func TestReserveSlotZeroLimitMeansNoSlots(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventRegistrationLimit = 0
	})
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	_, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
	if !errors.Is(err, ErrCapacityFull) {
		t.Fatalf("err = %v, want ErrCapacityFull", err)
	}
}

func TestReserveSlotDeadlinePassed(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventRegistrationDeadline = testClock.Add(-time.Minute)
	})
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	_, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("err = %v, want ErrDeadlinePassed", err)
	}
}

func TestReserveSlotAtExactDeadline(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	// tepat di deadline masih boleh; penolakan baru setelah lewat
	ev := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventRegistrationDeadline = testClock
	})
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	if _, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0); err != nil {
		t.Fatalf("ReserveSlot di deadline: %v", err)
	}
}

func TestReserveSlotDraftRejected(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventStatus = constants.EventStatusDraft
	})
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	_, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
	if !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("err = %v, want ErrRegistrationClosed", err)
	}
}

func TestReserveSlotOngoingRejected(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	// event sudah mulai → status efektif ongoing, registrasi tutup
	ev := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventStartDate = testClock.Add(-time.Hour)
		ev.EventEndDate = testClock.Add(time.Hour)
	})
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	_, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
	if !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("err = %v, want ErrRegistrationClosed", err)
	}
}

func TestReserveSlotNotEligible(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventEligibility = constants.EligibilityIIITOnly
	})
	u := seedUser(t, db, constants.ParticipantTypeNonIIIT)

	_, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("err = %v, want ErrNotEligible", err)
	}
}

func TestReserveSlotAlreadyRegistered(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, nil)
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	reg := &regModel.RegistrationModel{
		RegistrationTicketID: "TKT-EXISTING-1",
		RegistrationEventID:  ev.EventID,
		RegistrationUserID:   u.UserID,
		RegistrationStatus:   constants.RegistrationStatusRegistered,
	}
	if err := db.Create(reg).Error; err != nil {
		t.Fatalf("seed registration: %v", err)
	}

	_, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
}

func TestReserveSlotMerchandiseStock(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventType = constants.EventTypeMerchandise
		ev.EventStockQuantity = 3
	})
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	res, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 2)
	if err != nil {
		t.Fatalf("ReserveSlot: %v", err)
	}
	if res.Quantity != 2 {
		t.Fatalf("Quantity = %d, want 2", res.Quantity)
	}

	got := reloadEvent(t, db, ev.EventID)
	if got.EventStockQuantity != 1 {
		t.Fatalf("stok = %d, want 1", got.EventStockQuantity)
	}

	u2 := seedUser(t, db, constants.ParticipantTypeIIIT)
	_, err = ledger.ReserveSlot(context.Background(), ev.EventID, u2, 2)
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("err = %v, want ErrOutOfStock", err)
	}
}

func TestReleaseSlotIdempotent(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, nil)
	u := seedUser(t, db, constants.ParticipantTypeIIIT)

	res, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
	if err != nil {
		t.Fatalf("ReserveSlot: %v", err)
	}

	if err := ledger.ReleaseSlot(context.Background(), res); err != nil {
		t.Fatalf("ReleaseSlot: %v", err)
	}
	if err := ledger.ReleaseSlot(context.Background(), res); err != nil {
		t.Fatalf("ReleaseSlot kedua: %v", err)
	}

	got := reloadEvent(t, db, ev.EventID)
	if got.EventCurrentRegistrations != 0 {
		t.Fatalf("current = %d, want 0 (release idempoten)", got.EventCurrentRegistrations)
	}
	if got.EventTotalRevenue != 0 {
		t.Fatalf("revenue = %d, want 0", got.EventTotalRevenue)
	}
	// form tetap terkunci meskipun slot dilepas
	if !got.EventFormLocked {
		t.Fatal("form tidak boleh terbuka lagi setelah release")
	}
}

func TestReserveSlotConcurrentLastSlot(t *testing.T) {
	db := newTestDB(t)
	ledger := newTestLedger(db)
	ev := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventRegistrationLimit = 1
	})

	const racers = 10
	users := make([]*userModel.UserModel, racers)
	for i := range users {
		users[i] = seedUser(t, db, constants.ParticipantTypeIIIT)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(u *userModel.UserModel) {
			defer wg.Done()
			_, err := ledger.ReserveSlot(context.Background(), ev.EventID, u, 0)
			errCh <- err
		}(users[i])
	}
	wg.Wait()
	close(errCh)

	success, full := 0, 0
	for err := range errCh {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrCapacityFull):
			full++
		default:
			t.Fatalf("error tak terduga: %v", err)
		}
	}
	if success != 1 || full != racers-1 {
		t.Fatalf("success=%d full=%d, want 1/%d", success, full, racers-1)
	}

	got := reloadEvent(t, db, ev.EventID)
	if got.EventCurrentRegistrations != 1 {
		t.Fatalf("current = %d, want 1 (tidak boleh overbooking)", got.EventCurrentRegistrations)
	}
}

func TestEventTimestampsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, nil)

	got := reloadEvent(t, db, ev.EventID)
	if !got.EventStartDate.Equal(ev.EventStartDate) {
		t.Fatalf("start date %v, want %v", got.EventStartDate, ev.EventStartDate)
	}
	if !got.EventRegistrationDeadline.Equal(ev.EventRegistrationDeadline) {
		t.Fatalf("deadline %v, want %v", got.EventRegistrationDeadline, ev.EventRegistrationDeadline)
	}
	if got.EventCreatedAt.IsZero() {
		t.Fatal("created_at kosong setelah reload")
	}
	if got.EventID == uuid.Nil {
		t.Fatal("event_id kosong setelah reload")
	}
}
