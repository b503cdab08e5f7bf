package plan

import (
	"strings"

	"esportfed/internal/logger"
	"esportfed/internal/member"
)

// ResolveCategory returns the plan's explicit category, or infers one from
// the display name. Names matching no keyword fall back to player.
func ResolveCategory(p Plan) member.Category {
	if p.Category != nil && p.Category.Valid() {
		return *p.Category
	}

	inferred := InferCategory(p.Name)
	logger.Warn("plan has no member category, inferred from name",
		"plan_id", p.ID, "name", p.Name, "category", string(inferred))
	return inferred
}

func InferCategory(name string) member.Category {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "club"):
		return member.CategoryClub
	case strings.Contains(n, "partenaire"), strings.Contains(n, "partner"):
		return member.CategoryPartner
	default:
		return member.CategoryPlayer
	}
}
