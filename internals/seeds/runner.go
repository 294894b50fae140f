package seeds

import (
	users "campushub_backend/internals/seeds/users"

	"gorm.io/gorm"
)

func RunAllSeeds(db *gorm.DB) {
	//* User demo (admin, organizer, dua peserta)
	users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")
}
