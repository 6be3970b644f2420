package brawlstars

import (
	"fmt"
	"strings"
	"time"
)

// NormalizeTag turns user input such as "abc123", "#abc123" or "%23ABC123"
// into the canonical "#ABC123" form used as a document key.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "%23")
	tag = strings.TrimLeft(tag, "#")
	if tag == "" {
		return ""
	}
	return "#" + strings.ToUpper(tag)
}

// ParseBattleTime parses an upstream battle timestamp into UTC.
func ParseBattleTime(raw string) (time.Time, error) {
	t, err := time.Parse(BattleTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse battle time %q: %w", raw, err)
	}
	return t.UTC(), nil
}
