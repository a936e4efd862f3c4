package utils

import (
	"fmt"
	"strings"
)

// entityRelations maps each queryable entity to the relation names a list
// request may expand. Built once at startup instead of reflecting over the
// ORM metadata per request.
var entityRelations = map[string][]string{
	"permission": {"Roles"},
	"role":       {"Permissions", "Users"},
	"user":       {"Role", "SocialNetworks"},
}

// ValidateRelations checks every requested relation against the allow-list
// for the entity. Returns an error naming the first unknown relation.
func ValidateRelations(entity string, relations []string) error {
	allowed, ok := entityRelations[entity]
	if !ok {
		return fmt.Errorf("no relations registered for entity %q", entity)
	}
	for _, relation := range relations {
		found := false
		for _, name := range allowed {
			if name == relation {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("relation %q is not allowed for entity %q", relation, entity)
		}
	}
	return nil
}

// ParseRelations splits the comma separated relations query parameter and
// drops empty entries.
func ParseRelations(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	relations := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			relations = append(relations, trimmed)
		}
	}
	return relations
}
