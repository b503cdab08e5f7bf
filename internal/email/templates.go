package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	texttemplate "text/template"
)

const (
	TemplateMembershipConfirmation = "membership_confirmation"
	TemplatePaymentReceived        = "payment_received"
	TemplateTest                   = "test"
)

const federationName = "Fédération Esport"

var ErrUnknownTemplate = errors.New("unknown email template")

//go:embed templates/*.html
var templateFS embed.FS

var (
	bodies = template.Must(template.ParseFS(templateFS, "templates/*.html"))

	subjects = map[string]*texttemplate.Template{
		TemplateMembershipConfirmation: texttemplate.Must(texttemplate.New("s").Parse("Votre adhésion {{.PlanName}} est confirmée")),
		TemplatePaymentReceived:        texttemplate.Must(texttemplate.New("s").Parse("Paiement reçu - {{.PlanName}}")),
		TemplateTest:                   texttemplate.Must(texttemplate.New("s").Parse("Email de test")),
	}
)

// Render substitutes data into the named template. Values are HTML-escaped in the body.
func Render(templateType string, data map[string]any) (subject, html string, err error) {
	subjectTmpl, ok := subjects[templateType]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, templateType)
	}

	vars := make(map[string]any, len(data)+1)
	vars["Federation"] = federationName
	for k, v := range data {
		vars[k] = v
	}

	var sb bytes.Buffer
	if err := subjectTmpl.Execute(&sb, vars); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}

	var hb bytes.Buffer
	if err := bodies.ExecuteTemplate(&hb, templateType+".html", vars); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}

	return sb.String(), hb.String(), nil
}
