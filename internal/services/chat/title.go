// File: internal/services/chat/title.go
package chat

import (
	"strings"
	"unicode"

	"github.com/homellm/homechat/internal/domain"
)

const (
	titleMaxLen = 60
	titleMinLen = 3
)

// fillerOpeners are acknowledgement prefixes models like to start
// replies with. They carry no information, so they never belong in a
// chat title. Longer entries must come before their prefixes.
var fillerOpeners = []string{
	"thanks for asking",
	"great question",
	"good question",
	"i'd be happy to help",
	"happy to help",
	"of course",
	"certainly",
	"absolutely",
	"no problem",
	"sure thing",
	"sure",
	"okay",
	"ok",
	"hello there",
	"hello",
	"hi there",
	"hi",
	"hey",
	"well",
	"so",
	"yes",
}

// GenerateTitle derives a short, human-scannable chat title from the
// first assistant reply. It is deterministic and side-effect-free:
// identical input always yields an identical title. A reply with no
// substantive content falls back to the default label.
func GenerateTitle(firstAssistantReply string) string {
	text := strings.TrimSpace(firstAssistantReply)
	text = stripFillerOpeners(text)
	text = leadingClause(text)
	text = strings.TrimRightFunc(text, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	text = strings.TrimSpace(text)

	if len(text) < titleMinLen {
		return domain.DefaultTitle
	}
	return text
}

// stripFillerOpeners repeatedly removes filler prefixes and the
// punctuation that trails them.
func stripFillerOpeners(text string) string {
	for {
		trimmed := strings.TrimLeftFunc(text, func(r rune) bool {
			return unicode.IsSpace(r) || r == ',' || r == '!' || r == '.' || r == ':' || r == '-'
		})
		lower := strings.ToLower(trimmed)

		matched := false
		for _, opener := range fillerOpeners {
			if !strings.HasPrefix(lower, opener) {
				continue
			}
			rest := trimmed[len(opener):]
			// Only strip when the opener is a whole word, not a
			// fragment of a longer one ("okra" is not "ok").
			if rest != "" && !isOpenerBoundary(rune(rest[0])) {
				continue
			}
			text = rest
			matched = true
			break
		}
		if !matched {
			return trimmed
		}
		if text == "" {
			return ""
		}
	}
}

func isOpenerBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == '!' || r == '.' || r == ':' || r == '-'
}

// leadingClause cuts at the first strong sentence boundary, or at the
// character budget if no boundary comes first. A budget cut backs up
// to the last word break.
func leadingClause(text string) string {
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == ':' || r == ';' || r == '\n' {
			return text[:i]
		}
		if i >= titleMaxLen {
			cut := text[:i]
			if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
				return cut[:idx]
			}
			return cut
		}
	}
	return text
}
