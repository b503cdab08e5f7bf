package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// Single-line text only: these values end up in mail headers.
	_ = v.RegisterValidation("nocontrol", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
	})
	return v
}

// ValidateStruct runs the struct tags and returns one FieldError per invalid field,
// keyed by the field's JSON name.
func ValidateStruct(s interface{}, locale string) map[string]FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]FieldError{"_": {Code: "invalid", Message: err.Error()}}
	}

	fields := make(map[string]FieldError, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = FieldError{Code: fe.Tag(), Message: getErrorMessage(fe.Tag(), fe.Param(), locale)}
	}
	return fields
}

var errorMessages = map[string]map[string]string{
	LocaleFR: {
		"required":  "Ce champ est obligatoire",
		"email":     "Adresse email invalide",
		"min":       "Doit contenir au moins %s caractères",
		"max":       "Doit contenir au plus %s caractères",
		"oneof":     "Valeur non autorisée (valeurs possibles : %s)",
		"invalid":   "Valeur invalide",
		"nocontrol": "Ne doit pas contenir de retour à la ligne ni de caractère de contrôle",
	},
	LocaleEN: {
		"required":  "This field is required",
		"email":     "Must be a valid email address",
		"min":       "Must be at least %s characters",
		"max":       "Must be at most %s characters",
		"oneof":     "Must be one of: %s",
		"invalid":   "Invalid value",
		"nocontrol": "Must not contain line breaks or control characters",
	},
}

// Message returns the localized text for code, substituting param where the text expects one.
func Message(code, param, locale string) string {
	return getErrorMessage(code, param, locale)
}

// RegisterMessages adds localized texts for codes owned by another package.
func RegisterMessages(locale string, messages map[string]string) {
	if _, ok := errorMessages[locale]; !ok {
		errorMessages[locale] = map[string]string{}
	}
	for code, text := range messages {
		errorMessages[locale][code] = text
	}
}

func getErrorMessage(code, param, locale string) string {
	table, ok := errorMessages[locale]
	if !ok {
		table = errorMessages[DefaultLocale]
	}

	msg, ok := table[code]
	if !ok {
		msg = table["invalid"]
	}

	if strings.Contains(msg, "%s") {
		msg = strings.Replace(msg, "%s", strings.ReplaceAll(param, " ", ", "), 1)
	}
	return msg
}

// RespondWithValidationErrors sends field errors as JSON response
func RespondWithValidationErrors(c *gin.Context, fields map[string]FieldError) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:  "validation failed",
		Fields: fields,
	})
}
