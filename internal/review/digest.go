package review

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/vytor/medpass/internal/models"
)

// UnassignedLectureToken is the scope sentinel for items attached to no
// lecture.
const UnassignedLectureToken = "__unassigned|__none"

// digestContent hashes a content string with a cheap order-sensitive rolling
// hash over UTF-16 code units, wrapping at 32 bits. Empty content digests to
// the empty string.
func digestContent(value string) string {
	if value == "" {
		return ""
	}
	var h uint32
	for _, unit := range utf16.Encode([]rune(value)) {
		h = h*31 + uint32(unit)
	}
	return strconv.FormatUint(uint64(h), 16)
}

// SectionDigest returns the digest of a section's raw content, or "" when
// the section is empty or absent.
func SectionDigest(item *models.Item, key string) string {
	if item == nil || key == "" {
		return ""
	}
	return digestContent(item.Sections[key])
}

func normalizeScope(scope []string) []string {
	seen := make(map[string]struct{}, len(scope))
	out := make([]string, 0, len(scope))
	for _, entry := range scope {
		token := strings.TrimSpace(entry)
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// LectureScope returns the sorted, de-duplicated lecture tokens an item is
// attached to, or the unassigned sentinel when it has no lectures.
func LectureScope(item *models.Item) []string {
	if item == nil || len(item.Lectures) == 0 {
		return []string{UnassignedLectureToken}
	}
	tokens := make([]string, 0, len(item.Lectures))
	for _, ref := range item.Lectures {
		tokens = append(tokens, strings.TrimSpace(ref.BlockID+"|"+ref.ID))
	}
	return normalizeScope(tokens)
}
