package entity

// Category codes produced by the sequence-tagging model.
const (
	TypePerson       = "PER"
	TypeLocation     = "LOC"
	TypeOrganisation = "ORG"
)

// Entity is a span of the input text tagged by the NER model.
// Offsets are half-open character positions into the original input.
type Entity struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	StartPos   int     `json:"start_pos"`
	EndPos     int     `json:"end_pos"`
	Confidence float64 `json:"confidence"`
}

// Role is the legal role assigned to a person mentioned in a legal text.
type Role string

const (
	RoleDefendant      Role = "defendant"
	RolePlaintiff      Role = "plaintiff"
	RoleRepresentative Role = "representative"
	RoleUnknown        Role = "unknown"
)

// ValidRole reports whether r is one of the four recognised roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleDefendant, RolePlaintiff, RoleRepresentative, RoleUnknown:
		return true
	}
	return false
}

// LegalEntity is a person classified into a legal role. Role
// classification operates on names, not spans, so there are no offsets.
type LegalEntity struct {
	Name       string  `json:"name"`
	Role       Role    `json:"role"`
	Confidence float64 `json:"confidence"`
}
