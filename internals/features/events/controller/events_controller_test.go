package controller

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campushub_backend/internals/constants"
	dto "campushub_backend/internals/features/events/dto"
	model "campushub_backend/internals/features/events/model"
	helper "campushub_backend/internals/helpers"
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

	if err := db.AutoMigrate(&model.EventModel{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, mut func(*model.EventModel)) *model.EventModel {
	t.Helper()
	ev := &model.EventModel{
		EventOrganizerID:          uuid.New(),
		EventTitle:                "Event " + uuid.NewString()[:6],
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

// newListApp memasang route list dengan jam tetap di Locals supaya status
// efektif deterministik.
func newListApp(db *gorm.DB) *fiber.App {
	ctrl := NewEventController(db, nil)
	app := fiber.New()
	app.Get("/events", func(c *fiber.Ctx) error {
		c.Locals("now", testClock)
		return ctrl.List(c)
	})
	return app
}

type listEnvelope struct {
	Success    bool                `json:"success"`
	Data       []dto.EventResponse `json:"data"`
	Pagination helper.Pagination   `json:"pagination"`
}

func getList(t *testing.T, app *fiber.App, path string) (int, listEnvelope) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request list: %v", err)
	}
	defer resp.Body.Close()

	var env listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp.StatusCode, env
}

func TestListPaginatesAtStore(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 3; i++ {
		d := time.Duration(i) * time.Hour
		seedEvent(t, db, func(ev *model.EventModel) {
			ev.EventStartDate = ev.EventStartDate.Add(d)
			ev.EventEndDate = ev.EventEndDate.Add(d)
		})
	}
	app := newListApp(db)

	status, env := getList(t, app, "/events?page=2&per_page=2")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Data) != 1 {
		t.Fatalf("len(data) = %d, want 1 di halaman terakhir", len(env.Data))
	}
	// total dihitung dari store, bukan dari window halaman
	if env.Pagination.Total != 3 {
		t.Fatalf("total = %d, want 3", env.Pagination.Total)
	}
	if !env.Pagination.HasPrev || env.Pagination.HasNext {
		t.Fatalf("pagination = %+v, want has_prev tanpa has_next", env.Pagination)
	}
}

func TestListFiltersByEffectiveStatus(t *testing.T) {
	db := newTestDB(t)
	seedEvent(t, db, nil) // efektif published
	ongoing := seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventStartDate = testClock.Add(-time.Hour)
		ev.EventEndDate = testClock.Add(time.Hour)
	})
	app := newListApp(db)

	status, env := getList(t, app, "/events?status=ongoing")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(env.Data))
	}
	if env.Data[0].EventID != ongoing.EventID {
		t.Fatalf("event = %s, want %s", env.Data[0].EventID, ongoing.EventID)
	}
	if env.Data[0].EventEffectiveStatus != constants.EventStatusOngoing {
		t.Fatalf("effective = %q, want ongoing", env.Data[0].EventEffectiveStatus)
	}
	if env.Pagination.Total != 1 {
		t.Fatalf("total = %d, want 1", env.Pagination.Total)
	}
}

func TestListHidesDraftsFromPublic(t *testing.T) {
	db := newTestDB(t)
	seedEvent(t, db, nil)
	seedEvent(t, db, func(ev *model.EventModel) {
		ev.EventStatus = constants.EventStatusDraft
	})
	app := newListApp(db)

	status, env := getList(t, app, "/events")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Data) != 1 {
		t.Fatalf("len(data) = %d, want 1 (draft tersembunyi)", len(env.Data))
	}
}

func TestListRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	seedEvent(t, db, nil)
	app := newListApp(db)

	status, _ := getList(t, app, "/events?type=lomba")
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 untuk tipe tak dikenal", status)
	}
}
