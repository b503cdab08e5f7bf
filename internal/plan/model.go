package plan

import (
	"esportfed/internal/member"

	"github.com/lib/pq"
)

// Plan is a membership offering. Price is in the smallest currency unit.
type Plan struct {
	ID          string           `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Description string           `db:"description" json:"description"`
	Price       int64            `db:"price" json:"price"`
	Period      string           `db:"period" json:"period"`
	Features    pq.StringArray   `db:"features" json:"features"`
	Active      bool             `db:"active" json:"active"`
	Category    *member.Category `db:"member_category" json:"category,omitempty"`
}

// PlanView is the public catalog entry with the category always resolved.
type PlanView struct {
	Plan
	ResolvedCategory member.Category `json:"member_category"`
	RequiresPayment  bool            `json:"requires_payment"`
}
