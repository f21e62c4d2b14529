package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldLabel lowercases and strips combining marks so that "Średni",
// "sredni" and "SREDNI" all compare equal.
func foldLabel(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ResolveDefaultPriority picks the priority whose name matches
// preferredName case- and accent-insensitively, falling back to the
// lowest-id priority. Returns nil when no priorities exist.
func ResolveDefaultPriority(priorities []domain.Priority, preferredName string) *domain.Priority {
	if len(priorities) == 0 {
		return nil
	}
	wanted := foldLabel(preferredName)
	if wanted != "" {
		for i := range priorities {
			if foldLabel(priorities[i].Name) == wanted {
				return &priorities[i]
			}
		}
	}
	lowest := &priorities[0]
	for i := range priorities {
		if priorities[i].ID < lowest.ID {
			lowest = &priorities[i]
		}
	}
	return lowest
}
