// Package review implements the per-section spaced repetition core:
// streak-based interval growth on rating, content-digest invalidation and
// the due/upcoming queue collectors.
//
// Like the lecture scheduler, everything here is a pure computation over
// caller-owned data; the current time is always passed in explicitly.
package review

import (
	"regexp"
	"strings"

	"github.com/vytor/medpass/internal/models"
)

// SectionDef describes one reviewable content section of an item kind.
type SectionDef struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var sectionDefs = map[string][]SectionDef{
	"disease": {
		{Key: "etiology", Label: "Etiology"},
		{Key: "pathophys", Label: "Pathophys"},
		{Key: "clinical", Label: "Clinical Presentation"},
		{Key: "diagnosis", Label: "Diagnosis"},
		{Key: "treatment", Label: "Treatment"},
		{Key: "complications", Label: "Complications"},
		{Key: "mnemonic", Label: "Mnemonic"},
	},
	"drug": {
		{Key: "moa", Label: "Mechanism"},
		{Key: "uses", Label: "Uses"},
		{Key: "sideEffects", Label: "Side Effects"},
		{Key: "contraindications", Label: "Contraindications"},
		{Key: "mnemonic", Label: "Mnemonic"},
	},
	"concept": {
		{Key: "definition", Label: "Definition"},
		{Key: "mechanism", Label: "Mechanism"},
		{Key: "clinicalRelevance", Label: "Clinical Relevance"},
		{Key: "example", Label: "Example"},
		{Key: "mnemonic", Label: "Mnemonic"},
	},
}

// SectionDefsForKind returns the section definitions for an item kind, or
// nil for unknown kinds.
func SectionDefsForKind(kind string) []SectionDef {
	return sectionDefs[kind]
}

// Kinds returns the known item kinds.
func Kinds() []string {
	return []string{"disease", "drug", "concept"}
}

var (
	tagRe  = regexp.MustCompile(`<[^>]*>`)
	nbspRe = regexp.MustCompile(`&nbsp;`)
)

// HasContent reports whether a section holds reviewable text once markup is
// stripped. Unknown section keys for the item's kind never have content.
func HasContent(item *models.Item, key string) bool {
	if item == nil || key == "" {
		return false
	}
	known := false
	for _, def := range SectionDefsForKind(item.Kind) {
		if def.Key == key {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	raw := item.Sections[key]
	text := tagRe.ReplaceAllString(raw, " ")
	text = nbspRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text) != ""
}
