package api

import (
	"golang.org/x/text/language"
)

const (
	LocaleFR = "fr"
	LocaleEN = "en"

	DefaultLocale = LocaleFR
)

// French first so it wins ties and empty headers.
var localeMatcher = language.NewMatcher([]language.Tag{
	language.French,
	language.English,
})

// Locale picks fr or en from an Accept-Language header value.
func Locale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}

	_, idx, _ := localeMatcher.Match(tags...)
	if idx == 1 {
		return LocaleEN
	}
	return LocaleFR
}
