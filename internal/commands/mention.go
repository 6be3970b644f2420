package commands

import (
	"regexp"
	"strings"
)

// mentionPattern matches a Slack user mention such as <@U024BE7LH> or
// <@U024BE7LH|bob> as it arrives in slash command text.
var mentionPattern = regexp.MustCompile(`<@([A-Z0-9]+)(\|[^>]*)?>`)

// firstMention returns the user id of the first mention in text.
func firstMention(text string) (string, bool) {
	m := mentionPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// mention renders a user id the way Slack displays it as a link.
func mention(userID string) string {
	return "<@" + userID + ">"
}

// args splits command text on whitespace.
func args(text string) []string {
	return strings.Fields(text)
}
