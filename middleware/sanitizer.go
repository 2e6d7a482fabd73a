package middleware

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer remove qualquer HTML de textos livres enviados pelo usuário.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean devolve o texto sem HTML. As entidades escapadas pelo bluemonday só
// são revertidas quando o resultado não volta a conter < ou >; do contrário o
// texto fica escapado.
func (s *Sanitizer) Clean(text string) string {
	clean := s.policy.Sanitize(text)
	if plain := html.UnescapeString(clean); !strings.ContainsAny(plain, "<>") {
		clean = plain
	}
	return strings.TrimSpace(clean)
}
