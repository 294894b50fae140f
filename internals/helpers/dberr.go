// file: internals/helpers/dberr.go
package helper

import (
	"errors"
	"net/http"
	"strings"
)

// pgSQLErr: kontrak minimal error driver Postgres (pgconn.PgError memenuhinya)
// tanpa import driver langsung, supaya service tetap jalan di sqlite saat test.
type pgSQLErr interface {
	SQLState() string
	Error() string
}

// IsUniqueViolation: cek pelanggaran unique constraint.
// Postgres: SQLSTATE 23505 / "duplicate key"; sqlite: "UNIQUE constraint failed".
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr pgSQLErr
	if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "sqlstate 23505") ||
		strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint")
}

// UniqueViolationOn: unique violation + salah satu nama kolom/constraint.
// Dipakai untuk membedakan tabrakan ticket_id vs duplikat (event, user).
// Needle ganda karena Postgres menyebut nama constraint sedangkan sqlite
// menyebut nama kolom.
func UniqueViolationOn(err error, needles ...string) bool {
	if !IsUniqueViolation(err) {
		return false
	}
	s := strings.ToLower(err.Error())
	for _, needle := range needles {
		if strings.Contains(s, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

// MapPGError: fallback mapping error DB → status + pesan.
// 23505 unique_violation, 23503 foreign_key_violation
func MapPGError(err error) (int, string) {
	var pgErr pgSQLErr
	if errors.As(err, &pgErr) {
		switch pgErr.SQLState() {
		case "23505":
			return http.StatusConflict, "Data duplikat (unique violation)."
		case "23503":
			return http.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
		}
	}
	if IsUniqueViolation(err) {
		return http.StatusConflict, "Data duplikat (unique violation)."
	}
	return http.StatusInternalServerError, err.Error()
}
