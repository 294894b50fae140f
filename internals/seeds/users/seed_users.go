package user

import (
	"encoding/json"
	"log"
	"os"

	"campushub_backend/internals/features/users/model"

	"gorm.io/gorm"
)

type UserSeed struct {
	UserName        string   `json:"user_name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	ParticipantType string   `json:"participant_type"`
	FollowedClubs   []string `json:"followed_clubs"`
}

func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file user:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, data := range inputs {
		var existing model.UserModel
		if err := db.Where("user_email = ?", data.Email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ User dengan email '%s' sudah ada, dilewati.", data.Email)
			continue
		}

		clubs, err := json.Marshal(data.FollowedClubs)
		if err != nil {
			log.Printf("❌ Gagal encode followed_clubs untuk '%s': %v", data.Email, err)
			continue
		}

		newUser := model.UserModel{
			UserName:            data.UserName,
			UserEmail:           data.Email,
			UserRole:            data.Role,
			UserParticipantType: data.ParticipantType,
			UserFollowedClubs:   clubs,
		}

		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("❌ Gagal insert user '%s': %v", data.Email, err)
		} else {
			log.Printf("✅ Berhasil insert user '%s'", data.Email)
		}
	}
}
