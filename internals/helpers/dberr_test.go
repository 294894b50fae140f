package helper

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

type fakePGErr struct {
	state string
	msg   string
}

func (e *fakePGErr) SQLState() string { return e.state }
func (e *fakePGErr) Error() string    { return e.msg }

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg sqlstate", &fakePGErr{state: "23505", msg: `duplicate key value violates unique constraint "uq_registrations_ticket_id"`}, true},
		{"pg fk", &fakePGErr{state: "23503", msg: "violates foreign key constraint"}, false},
		{"sqlite", errors.New("UNIQUE constraint failed: registrations.registration_ticket_id"), true},
		{"wrapped", fmt.Errorf("persist: %w", errors.New("duplicate key value violates unique constraint")), true},
		{"lain", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("IsUniqueViolation = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUniqueViolationOn(t *testing.T) {
	pg := &fakePGErr{state: "23505", msg: `duplicate key value violates unique constraint "uq_registrations_event_user"`}
	lite := errors.New("UNIQUE constraint failed: registrations.registration_event_id, registrations.registration_user_id")

	// needle ganda: postgres kena via nama constraint, sqlite via nama kolom
	if !UniqueViolationOn(pg, "event_user", "user_id") {
		t.Fatal("postgres duplikat (event,user) tidak terdeteksi")
	}
	if !UniqueViolationOn(lite, "event_user", "user_id") {
		t.Fatal("sqlite duplikat (event,user) tidak terdeteksi")
	}

	ticket := errors.New("UNIQUE constraint failed: registrations.registration_ticket_id")
	if UniqueViolationOn(ticket, "event_user", "user_id") {
		t.Fatal("tabrakan ticket_id salah terklasifikasi sebagai duplikat user")
	}
	if !UniqueViolationOn(ticket, "ticket") {
		t.Fatal("tabrakan ticket_id tidak terdeteksi")
	}
}

func TestMapPGError(t *testing.T) {
	status, _ := MapPGError(&fakePGErr{state: "23505", msg: "duplicate key"})
	if status != http.StatusConflict {
		t.Fatalf("status = %d, want 409", status)
	}
	status, _ = MapPGError(&fakePGErr{state: "23503", msg: "fk violation"})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	status, msg := MapPGError(errors.New("connection refused"))
	if status != http.StatusInternalServerError || msg == "" {
		t.Fatalf("status = %d msg = %q", status, msg)
	}
}

func TestQRImageURL(t *testing.T) {
	ref := QRImageURL("", []byte(`{"ticket_id":"TKT-1"}`))
	if !strings.HasPrefix(ref, "https://api.qrserver.com/v1/create-qr-code/?") {
		t.Fatalf("ref = %q", ref)
	}
	if !strings.Contains(ref, "size=300x300") {
		t.Fatalf("ref tanpa size: %q", ref)
	}

	ref = QRImageURL("https://qr.internal/render?fmt=png", []byte("x"))
	if !strings.Contains(ref, "render?fmt=png&") {
		t.Fatalf("base ber-query harus disambung &: %q", ref)
	}
}
