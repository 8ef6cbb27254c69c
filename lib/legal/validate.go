package legal

import (
	"encoding/json"

	"github.com/lexica-nlp/entity-recognition/lib/entity"
)

// defaultConfidence replaces a missing or invalid confidence score.
const defaultConfidence = 0.7

// validateCandidate coerces one raw candidate into a LegalEntity.
// A missing role, or a role outside the enumeration, becomes unknown; a
// missing or non-numeric confidence, or one outside [0,1], becomes the
// default. Candidates without a usable name are rejected.
func validateCandidate(raw json.RawMessage) (entity.LegalEntity, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return entity.LegalEntity{}, false
	}

	var name string
	if err := json.Unmarshal(fields["name"], &name); err != nil || name == "" {
		return entity.LegalEntity{}, false
	}

	role := entity.RoleUnknown
	if rawRole, ok := fields["role"]; ok {
		var r string
		if err := json.Unmarshal(rawRole, &r); err == nil && entity.ValidRole(entity.Role(r)) {
			role = entity.Role(r)
		}
	}

	confidence := float64(defaultConfidence)
	if rawConf, ok := fields["confidence"]; ok {
		var c float64
		if err := json.Unmarshal(rawConf, &c); err == nil && c >= 0 && c <= 1 {
			confidence = c
		}
	}

	return entity.LegalEntity{Name: name, Role: role, Confidence: confidence}, true
}

// validateCandidates drops malformed candidates rather than failing the
// whole response.
func validateCandidates(raw []json.RawMessage) []entity.LegalEntity {
	entities := make([]entity.LegalEntity, 0, len(raw))
	for _, candidate := range raw {
		if e, ok := validateCandidate(candidate); ok {
			entities = append(entities, e)
		}
	}
	return entities
}
