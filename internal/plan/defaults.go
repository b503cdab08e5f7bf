package plan

import (
	"esportfed/internal/api"
	"esportfed/internal/member"
)

type planLabels struct {
	name        string
	description string
	period      string
	features    []string
}

var defaultLabels = map[string]map[string]planLabels{
	api.LocaleFR: {
		"joueur": {
			name:        "Licence Joueur",
			description: "Adhésion individuelle pour les joueurs amateurs et compétiteurs",
			period:      "an",
			features:    []string{"Accès aux compétitions fédérales", "Newsletter mensuelle", "Tarifs réduits sur les événements"},
		},
		"club": {
			name:        "Affiliation Club",
			description: "Affiliation annuelle des structures et associations esport",
			period:      "an",
			features:    []string{"Inscription des équipes aux championnats", "Accompagnement administratif", "Visibilité sur le site fédéral"},
		},
		"partenaire": {
			name:        "Partenaire",
			description: "Partenariat institutionnel ou commercial avec la fédération",
			period:      "an",
			features:    []string{"Présence sur les événements", "Mise en avant des partenaires", "Contact dédié"},
		},
	},
	api.LocaleEN: {
		"joueur": {
			name:        "Player License",
			description: "Individual membership for amateur and competitive players",
			period:      "year",
			features:    []string{"Access to federation competitions", "Monthly newsletter", "Discounted event tickets"},
		},
		"club": {
			name:        "Club Affiliation",
			description: "Yearly affiliation for esports organisations and associations",
			period:      "year",
			features:    []string{"Team entry to championships", "Administrative support", "Listing on the federation website"},
		},
		"partenaire": {
			name:        "Partner",
			description: "Institutional or commercial partnership with the federation",
			period:      "year",
			features:    []string{"Presence at events", "Partner showcase", "Dedicated contact"},
		},
	},
}

var defaultPlanSpecs = []struct {
	id       string
	price    int64
	category member.Category
}{
	{"joueur", 0, member.CategoryPlayer},
	{"partenaire", 0, member.CategoryPartner},
	{"club", 150000, member.CategoryClub},
}

// DefaultPlans returns the built-in catalog, one plan per category, ordered by price.
func DefaultPlans(locale string) []Plan {
	labels, ok := defaultLabels[locale]
	if !ok {
		labels = defaultLabels[api.DefaultLocale]
	}

	plans := make([]Plan, 0, len(defaultPlanSpecs))
	for _, s := range defaultPlanSpecs {
		l := labels[s.id]
		category := s.category
		plans = append(plans, Plan{
			ID:          s.id,
			Name:        l.name,
			Description: l.description,
			Price:       s.price,
			Period:      l.period,
			Features:    append([]string(nil), l.features...),
			Active:      true,
			Category:    &category,
		})
	}
	return plans
}
