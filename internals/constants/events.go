package constants

// Tipe event menentukan payload mana yang legal di model event.
const (
	EventTypeNormal      = "normal"
	EventTypeMerchandise = "merchandise"
	EventTypeTeam        = "team"
)

// Eligibility event terhadap tipe participant.
const (
	EligibilityIIITOnly    = "iiit-only"
	EligibilityNonIIITOnly = "non-iiit-only"
	EligibilityAll         = "all"
)

// Status event TERSIMPAN. Status efektif dihitung ulang di setiap read
// lewat service.EffectiveStatus (draft/closed menang, sisanya dari tanggal).
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusClosed    = "closed"
)

// Status registrasi peserta.
const (
	RegistrationStatusPending    = "pending"
	RegistrationStatusRegistered = "registered"
	RegistrationStatusCancelled  = "cancelled"
	RegistrationStatusRejected   = "rejected"
	RegistrationStatusAttended   = "attended"
)

// Status tim. Transisi hanya maju: incomplete → complete → registered.
const (
	TeamStatusIncomplete = "incomplete"
	TeamStatusComplete   = "complete"
	TeamStatusRegistered = "registered"
)

// EventTypes: daftar tipe yang sah, dipakai validasi query filter.
var EventTypes = []string{
	EventTypeNormal,
	EventTypeMerchandise,
	EventTypeTeam,
}

// EligibilityAllows mengecek apakah participantType lolos eligibility event.
func EligibilityAllows(eligibility, participantType string) bool {
	switch eligibility {
	case EligibilityIIITOnly:
		return participantType == ParticipantTypeIIIT
	case EligibilityNonIIITOnly:
		return participantType == ParticipantTypeNonIIIT
	default:
		return true
	}
}
