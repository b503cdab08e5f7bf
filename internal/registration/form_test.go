package registration

import (
	"strings"
	"testing"

	"esportfed/internal/api"
	"esportfed/internal/plan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testPlans = plan.DefaultPlans(api.LocaleFR)

func TestValidate_Valid(t *testing.T) {
	raw := validRaw("club", "  Camille.Moreau@Example.COM ")
	raw.Games = []string{" Valorant ", "", "  "}
	raw.AgeCategory = "senior"

	in, verr := Validate(raw, testPlans, api.LocaleFR)
	require.Nil(t, verr)

	assert.Equal(t, "club", in.Plan.ID)
	assert.Equal(t, int64(150000), in.Plan.Price)
	assert.Equal(t, "camille.moreau@example.com", in.Email)
	assert.Equal(t, []string{"Valorant"}, in.Games)
	require.NotNil(t, in.AgeCategory)
	assert.Equal(t, "senior", *in.AgeCategory)
	assert.Equal(t, "Camille Moreau", in.FullName())
}

func TestValidate_AgeCategoryOptional(t *testing.T) {
	in, verr := Validate(validRaw("joueur", "a@x.com"), testPlans, api.LocaleFR)
	require.Nil(t, verr)
	assert.Nil(t, in.AgeCategory)
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*RawInput)
		field  string
		code   string
	}{
		{"missing plan", func(r *RawInput) { r.PlanID = "" }, "planId", "required"},
		{"unknown plan", func(r *RawInput) { r.PlanID = "vip" }, "planId", codeUnknownPlan},
		{"short first name", func(r *RawInput) { r.FirstName = "A" }, "firstName", "min"},
		{"short last name", func(r *RawInput) { r.LastName = " B " }, "lastName", "min"},
		{"header in first name", func(r *RawInput) { r.FirstName = "Jo\r\nBcc: victim@evil.com" }, "firstName", "nocontrol"},
		{"line break in last name", func(r *RawInput) { r.LastName = "Moreau\nX-Inj: 1" }, "lastName", "nocontrol"},
		{"control in phone", func(r *RawInput) { r.Phone = "0612\x00345678" }, "phone", "nocontrol"},
		{"line break in address", func(r *RawInput) { r.Address = "12 rue de la Paix\r\nBcc: x@y.z" }, "address", "nocontrol"},
		{"line break in city", func(r *RawInput) { r.City = "Lyon\nBcc: x@y.z" }, "city", "nocontrol"},
		{"bad email", func(r *RawInput) { r.Email = "camille@" }, "email", "email"},
		{"short phone", func(r *RawInput) { r.Phone = "0612" }, "phone", "min"},
		{"short address", func(r *RawInput) { r.Address = "1 rue" }, "address", "min"},
		{"short city", func(r *RawInput) { r.City = "L" }, "city", "min"},
		{"bad experience", func(r *RawInput) { r.ExperienceLevel = "legend" }, "experienceLevel", "oneof"},
		{"bad age category", func(r *RawInput) { r.AgeCategory = "toddler" }, "ageCategory", "oneof"},
		{"no games", func(r *RawInput) { r.Games = nil }, "games", "required"},
		{"blank games", func(r *RawInput) { r.Games = []string{" ", ""} }, "games", "required"},
		{"short motivation", func(r *RawInput) { r.Motivation = strings.Repeat("a", 49) }, "motivation", "min"},
		{"terms false", func(r *RawInput) { r.AcceptTerms = false }, "acceptTerms", codeTerms},
		{"terms string", func(r *RawInput) { r.AcceptTerms = "true" }, "acceptTerms", codeTerms},
		{"terms missing", func(r *RawInput) { r.AcceptTerms = nil }, "acceptTerms", "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw("joueur", "a@x.com")
			tt.modify(&raw)

			_, verr := Validate(raw, testPlans, api.LocaleFR)
			require.NotNil(t, verr)
			require.Contains(t, verr.Fields, tt.field)
			assert.Equal(t, tt.code, verr.Fields[tt.field].Code)
			assert.NotEmpty(t, verr.Fields[tt.field].Message)
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestValidate_AllFieldsAtOnce(t *testing.T) {
	_, verr := Validate(RawInput{}, testPlans, api.LocaleEN)
	require.NotNil(t, verr)

	for _, field := range []string{"planId", "firstName", "lastName", "email", "phone", "address", "city", "experienceLevel", "games", "motivation", "acceptTerms"} {
		assert.Contains(t, verr.Fields, field)
	}
	assert.NotContains(t, verr.Fields, "ageCategory")
	assert.Equal(t, "This field is required", verr.Fields["email"].Message)
}

func TestValidate_TermsMessageDistinctFromRequired(t *testing.T) {
	refused := validRaw("joueur", "a@x.com")
	refused.AcceptTerms = false
	missing := validRaw("joueur", "a@x.com")
	missing.AcceptTerms = nil

	_, refusedErr := Validate(refused, testPlans, api.LocaleFR)
	_, missingErr := Validate(missing, testPlans, api.LocaleFR)

	assert.NotEqual(t, refusedErr.Fields["acceptTerms"].Message, missingErr.Fields["acceptTerms"].Message)
	assert.Equal(t, "Vous devez accepter les conditions d'adhésion", refusedErr.Fields["acceptTerms"].Message)
}

func TestValidate_MotivationCountsCharacters(t *testing.T) {
	raw := validRaw("joueur", "a@x.com")
	raw.Motivation = strings.Repeat("é", 50)

	_, verr := Validate(raw, testPlans, api.LocaleFR)
	assert.Nil(t, verr)
}

func TestValidate_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := validRaw("joueur", "a@x.com")
		raw.Motivation = rapid.StringN(0, 49, -1).Draw(t, "motivation")

		_, verr := Validate(raw, testPlans, api.LocaleFR)
		if verr == nil {
			t.Fatalf("motivation %q accepted", raw.Motivation)
		}
		if _, ok := verr.Fields["motivation"]; !ok {
			t.Fatalf("no motivation error for %q", raw.Motivation)
		}
	})

	rapid.Check(t, func(t *rapid.T) {
		raw := validRaw("joueur", "a@x.com")
		raw.AcceptTerms = rapid.OneOf(
			rapid.Just[any](false),
			rapid.Just[any]("yes"),
			rapid.Just[any](1),
			rapid.Just[any](map[string]any{}),
		).Draw(t, "acceptTerms")

		_, verr := Validate(raw, testPlans, api.LocaleFR)
		if verr == nil || verr.Fields["acceptTerms"].Code != codeTerms {
			t.Fatalf("acceptTerms %v not rejected with terms code", raw.AcceptTerms)
		}
	})
}

func TestValidate_NamesNeverCarryLineBreaks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := validRaw("joueur", "a@x.com")
		raw.FirstName = rapid.StringMatching(`[A-Za-z]{2,8}`).Draw(t, "head") +
			rapid.SampledFrom([]string{"\r\n", "\n", "\r"}).Draw(t, "eol") +
			rapid.StringMatching(`Bcc: [a-z]{1,8}@evil\.com`).Draw(t, "tail")

		in, verr := Validate(raw, testPlans, api.LocaleFR)
		if verr == nil {
			t.Fatalf("accepted full name %q", in.FullName())
		}
		if verr.Fields["firstName"].Code != "nocontrol" {
			t.Fatalf("first name %q rejected with %q", raw.FirstName, verr.Fields["firstName"].Code)
		}
	})
}
