package registration

import (
	"errors"
	"fmt"

	"esportfed/internal/api"
)

// ErrorKind classifies why a workflow stopped in StateError.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindDuplicate    ErrorKind = "duplicate"
	KindConnectivity ErrorKind = "connectivity"
	KindPersistence  ErrorKind = "persistence"
	KindPayment      ErrorKind = "payment"
	KindActivation   ErrorKind = "activation"
)

var (
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	ErrEmailMismatch     = errors.New("payment result does not match the registered email")
	ErrCheckoutMismatch  = errors.New("checkout belongs to another registration")
	ErrNothingToCharge   = errors.New("plan has no price to charge")
	ErrNoCheckout        = errors.New("no checkout started for this registration")
	ErrSessionNotFound   = errors.New("registration session not found")
)

// WorkflowError is the user-facing failure of a workflow step.
type WorkflowError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]api.FieldError
	Err     error
}

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

var kindMessages = map[string]map[ErrorKind]string{
	api.LocaleFR: {
		KindValidation:   "Le formulaire contient des erreurs",
		KindDuplicate:    "Cette adresse email est déjà enregistrée. Contactez un administrateur à %s plutôt que de vous réinscrire.",
		KindConnectivity: "Le service est momentanément indisponible, veuillez réessayer",
		KindPersistence:  "L'inscription n'a pas pu être enregistrée",
		KindPayment:      "Le paiement n'a pas abouti, vous pouvez réessayer",
		KindActivation:   "Paiement reçu mais l'activation a échoué. Un administrateur va régulariser votre adhésion.",
	},
	api.LocaleEN: {
		KindValidation:   "The form contains errors",
		KindDuplicate:    "This email address is already registered. Contact an administrator at %s instead of registering again.",
		KindConnectivity: "The service is temporarily unavailable, please try again",
		KindPersistence:  "The registration could not be saved",
		KindPayment:      "The payment did not go through, you can try again",
		KindActivation:   "Payment received but activation failed. An administrator will complete your membership.",
	},
}

func kindMessage(kind ErrorKind, locale, adminContact string) string {
	table, ok := kindMessages[locale]
	if !ok {
		table = kindMessages[api.DefaultLocale]
	}
	if kind == KindDuplicate {
		return fmt.Sprintf(table[kind], adminContact)
	}
	return table[kind]
}

// resubmittable kinds leave nothing written, so the form may be sent again.
func (k ErrorKind) resubmittable() bool {
	switch k {
	case KindValidation, KindDuplicate, KindConnectivity, KindPersistence:
		return true
	}
	return false
}
