package registration

import (
	"strings"

	"esportfed/internal/api"
	"esportfed/internal/member"
	"esportfed/internal/plan"
)

const (
	codeTerms       = "terms"
	codeUnknownPlan = "unknown_plan"
)

func init() {
	api.RegisterMessages(api.LocaleFR, map[string]string{
		codeTerms:       "Vous devez accepter les conditions d'adhésion",
		codeUnknownPlan: "Formule d'adhésion inconnue",
	})
	api.RegisterMessages(api.LocaleEN, map[string]string{
		codeTerms:       "You must accept the membership terms",
		codeUnknownPlan: "Unknown membership plan",
	})
}

// RawInput is the registration form as submitted. AcceptTerms stays untyped so
// a non-boolean value can be told apart from a missing one.
type RawInput struct {
	PlanID          string   `json:"planId"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	AgeCategory     string   `json:"ageCategory"`
	ExperienceLevel string   `json:"experienceLevel"`
	Games           []string `json:"games"`
	Motivation      string   `json:"motivation"`
	AcceptTerms     any      `json:"acceptTerms"`
}

// RegistrationInput is a validated form, normalized and bound to its plan.
type RegistrationInput struct {
	Plan            plan.Plan
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Address         string
	City            string
	AgeCategory     *string
	ExperienceLevel string
	Games           []string
	Motivation      string
}

func (in RegistrationInput) FullName() string {
	return in.FirstName + " " + in.LastName
}

type formFields struct {
	PlanID          string   `json:"planId" validate:"required"`
	FirstName       string   `json:"firstName" validate:"required,nocontrol,min=2"`
	LastName        string   `json:"lastName" validate:"required,nocontrol,min=2"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"required,nocontrol,min=8"`
	Address         string   `json:"address" validate:"required,nocontrol,min=10"`
	City            string   `json:"city" validate:"required,nocontrol,min=2"`
	AgeCategory     string   `json:"ageCategory" validate:"omitempty,oneof=junior senior veteran"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required,oneof=beginner intermediate advanced professional"`
	Games           []string `json:"games" validate:"required"`
	Motivation      string   `json:"motivation" validate:"required,min=50"`
}

// ValidationError lists every invalid field of one submission.
type ValidationError struct {
	Fields map[string]api.FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	return "invalid fields: " + strings.Join(names, ", ")
}

// Validate checks every field of raw at once against plans. It does no I/O.
func Validate(raw RawInput, plans []plan.Plan, locale string) (RegistrationInput, *ValidationError) {
	f := formFields{
		PlanID:          strings.TrimSpace(raw.PlanID),
		FirstName:       strings.TrimSpace(raw.FirstName),
		LastName:        strings.TrimSpace(raw.LastName),
		Email:           member.NormalizeEmail(raw.Email),
		Phone:           strings.TrimSpace(raw.Phone),
		Address:         strings.TrimSpace(raw.Address),
		City:            strings.TrimSpace(raw.City),
		AgeCategory:     strings.TrimSpace(raw.AgeCategory),
		ExperienceLevel: strings.TrimSpace(raw.ExperienceLevel),
		Games:           normalizeGames(raw.Games),
		Motivation:      strings.TrimSpace(raw.Motivation),
	}

	fields := api.ValidateStruct(f, locale)
	if fields == nil {
		fields = map[string]api.FieldError{}
	}

	selected, found := findPlan(plans, f.PlanID)
	if f.PlanID != "" && !found {
		fields["planId"] = fieldError(codeUnknownPlan, locale)
	}

	switch v := raw.AcceptTerms.(type) {
	case nil:
		fields["acceptTerms"] = fieldError("required", locale)
	case bool:
		if !v {
			fields["acceptTerms"] = fieldError(codeTerms, locale)
		}
	default:
		fields["acceptTerms"] = fieldError(codeTerms, locale)
	}

	if len(fields) > 0 {
		return RegistrationInput{}, &ValidationError{Fields: fields}
	}

	in := RegistrationInput{
		Plan:            selected,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		Phone:           f.Phone,
		Address:         f.Address,
		City:            f.City,
		ExperienceLevel: f.ExperienceLevel,
		Games:           f.Games,
		Motivation:      f.Motivation,
	}
	if f.AgeCategory != "" {
		age := f.AgeCategory
		in.AgeCategory = &age
	}
	return in, nil
}

func fieldError(code, locale string) api.FieldError {
	return api.FieldError{Code: code, Message: api.Message(code, "", locale)}
}

func findPlan(plans []plan.Plan, id string) (plan.Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return plan.Plan{}, false
}

// normalizeGames trims entries and drops blanks; nil when nothing is left.
func normalizeGames(games []string) []string {
	var out []string
	for _, g := range games {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
