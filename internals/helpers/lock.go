// file: internals/helpers/lock.go
package helper

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockForUpdate menempelkan row lock SELECT ... FOR UPDATE.
// SQLite tidak mengenal FOR UPDATE (transaksinya sudah serialized); guard
// pada WHERE clause tetap otoritas terakhir di semua dialect.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
