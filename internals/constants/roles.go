package constants

import "fmt"

// Role dasar pengguna
const (
	RoleParticipant = "participant"
	RoleOrganizer   = "organizer"
	RoleAdmin       = "admin"
)

// Tipe participant (gating eligibility event)
const (
	ParticipantTypeIIIT    = "iiit"
	ParticipantTypeNonIIIT = "non-iiit"
)

// Template pesan error role
const (
	ErrOnlyOrganizersCanAccess   = "❌ Hanya organizer atau admin yang boleh mengakses fitur %s."
	ErrOnlyParticipantsCanAccess = "❌ Hanya pengguna terautentikasi yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorOrganizer(feature string) string {
	return fmt.Sprintf(ErrOnlyOrganizersCanAccess, feature)
}

func RoleErrorParticipant(feature string) string {
	return fmt.Sprintf(ErrOnlyParticipantsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleParticipant,
		RoleOrganizer,
		RoleAdmin,
	}

	OrganizerAndAbove = []string{
		RoleOrganizer,
		RoleAdmin,
	}
)
