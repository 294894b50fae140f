package controller

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campushub_backend/internals/constants"
	eventModel "campushub_backend/internals/features/events/model"
	eventService "campushub_backend/internals/features/events/service"
	model "campushub_backend/internals/features/registrations/model"
	service "campushub_backend/internals/features/registrations/service"
	userModel "campushub_backend/internals/features/users/model"
)

var testClock = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

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
		&eventModel.EventModel{},
		&model.RegistrationModel{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type okQR struct{}

func (okQR) Generate(payload []byte) (string, error) {
	return "https://qr.test/" + uuid.NewString(), nil
}

func seedParticipant(t *testing.T, db *gorm.DB) *userModel.UserModel {
	t.Helper()
	u := &userModel.UserModel{
		UserName:            "Peserta " + uuid.NewString()[:6],
		UserEmail:           uuid.NewString()[:8] + "@test.local",
		UserRole:            constants.RoleParticipant,
		UserParticipantType: constants.ParticipantTypeIIIT,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedEvent(t *testing.T, db *gorm.DB, mut func(*eventModel.EventModel)) *eventModel.EventModel {
	t.Helper()
	ev := &eventModel.EventModel{
		EventOrganizerID:          uuid.New(),
		EventTitle:                "Campus Fair",
		EventType:                 constants.EventTypeNormal,
		EventEligibility:          constants.EligibilityAll,
		EventRegistrationDeadline: testClock.Add(24 * time.Hour),
		EventStartDate:            testClock.Add(48 * time.Hour),
		EventEndDate:              testClock.Add(72 * time.Hour),
		EventRegistrationLimit:    10,
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

// newRegisterApp memasang route register dengan user login tiruan di Locals,
// persis seperti yang diisi auth middleware.
func newRegisterApp(db *gorm.DB, u *userModel.UserModel) *fiber.App {
	ledger := eventService.NewCapacityLedger(db)
	ledger.Now = func() time.Time { return testClock }
	issuer := service.NewRegistrationIssuer(db, ledger, okQR{}, nil)
	issuer.Now = func() time.Time { return testClock }
	ctrl := NewRegistrationController(db, ledger, issuer)

	app := fiber.New()
	app.Post("/registrations", func(c *fiber.Ctx) error {
		c.Locals("user_id", u.UserID.String())
		return ctrl.Register(c)
	})
	return app
}

func postRegister(t *testing.T, app *fiber.App, eventID uuid.UUID) int {
	t.Helper()
	body := fmt.Sprintf(`{"event_id":%q}`, eventID.String())
	req := httptest.NewRequest(fiber.MethodPost, "/registrations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request register: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRegisterIssuesTicketForNormalEvent(t *testing.T) {
	db := newTestDB(t)
	u := seedParticipant(t, db)
	ev := seedEvent(t, db, nil)
	app := newRegisterApp(db, u)

	if status := postRegister(t, app, ev.EventID); status != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}

	var count int64
	if err := db.Model(&model.RegistrationModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count registrasi: %v", err)
	}
	if count != 1 {
		t.Fatalf("registrasi = %d, want 1", count)
	}
}

func TestRegisterRejectsTeamEvent(t *testing.T) {
	db := newTestDB(t)
	u := seedParticipant(t, db)
	ev := seedEvent(t, db, func(ev *eventModel.EventModel) {
		ev.EventType = constants.EventTypeTeam
		ev.EventMinTeamSize = 2
		ev.EventMaxTeamSize = 4
	})
	app := newRegisterApp(db, u)

	if status := postRegister(t, app, ev.EventID); status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 untuk event tim", status)
	}

	// tidak ada tiket individual yang terbit, kuota tidak tersentuh
	var count int64
	if err := db.Model(&model.RegistrationModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count registrasi: %v", err)
	}
	if count != 0 {
		t.Fatalf("registrasi = %d, want 0", count)
	}

	var got eventModel.EventModel
	if err := db.Where("event_id = ?", ev.EventID).First(&got).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if got.EventCurrentRegistrations != 0 {
		t.Fatalf("current = %d, want 0", got.EventCurrentRegistrations)
	}
}
