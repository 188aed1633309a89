package calendar

import (
	"regexp"
	"strings"
)

// HolidayOverride replaces the built-in icon for notes containing Keyword.
// An empty CustomMessage keeps the note text.
type HolidayOverride struct {
	Keyword       string `yaml:"keyword" json:"keyword"`
	Emoji         string `yaml:"emoji" json:"emoji"`
	CustomMessage string `yaml:"custom_message,omitempty" json:"custom_message,omitempty"`
}

// HolidayDisplay is what a no-school cell shows.
type HolidayDisplay struct {
	Emoji   string
	Message string
}

type holidayRule struct {
	keywords []string
	emoji    string
}

var builtinHolidayRules = []holidayRule{
	{keywords: []string{"winter break", "christmas"}, emoji: "❄️"},
	{keywords: []string{"thanksgiving"}, emoji: "🦃"},
	{keywords: []string{"president", "memorial", "labor"}, emoji: "🇺🇸"},
	{keywords: []string{"mlk", "martin luther king"}, emoji: "✊"},
	{keywords: []string{"spring break"}, emoji: "🌸"},
	{keywords: []string{"teacher"}, emoji: "📚"},
}

const defaultHolidayEmoji = "🏠"

// ResolveHoliday picks the emoji and message for an academic note. Overrides
// are tried in order with a case-insensitive substring match; the first hit
// wins. Without a hit the built-in keyword table applies.
func ResolveHoliday(note string, overrides []HolidayOverride) HolidayDisplay {
	lower := strings.ToLower(note)

	for _, o := range overrides {
		kw := strings.ToLower(strings.TrimSpace(o.Keyword))
		if kw == "" || !strings.Contains(lower, kw) {
			continue
		}
		msg := note
		if o.CustomMessage != "" {
			msg = o.CustomMessage
		}
		return HolidayDisplay{Emoji: o.Emoji, Message: msg}
	}

	for _, rule := range builtinHolidayRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return HolidayDisplay{Emoji: rule.emoji, Message: note}
			}
		}
	}
	return HolidayDisplay{Emoji: defaultHolidayEmoji, Message: note}
}

var noSchoolSuffix = regexp.MustCompile(`(?i)(\s+-)?\s+no school\s*$`)

// StripNoSchoolSuffix removes a trailing " - No School" or " No School".
func StripNoSchoolSuffix(msg string) string {
	trimmed := noSchoolSuffix.ReplaceAllString(msg, "")
	if strings.TrimSpace(trimmed) == "" {
		return strings.TrimSpace(msg)
	}
	return trimmed
}
