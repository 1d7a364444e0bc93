package flow

import (
	"strings"

	"github.com/fieldlens/fieldlens/internal/config"
)

// DetectTool matches the message against the intent rules and returns the
// first tool whose keywords all appear as whole words. An empty return means
// no rule matched.
func DetectTool(rules []config.IntentRule, message string) string {
	words := wordSet(message)
	for _, rule := range rules {
		if len(rule.Keywords) == 0 {
			continue
		}
		matched := true
		for _, kw := range rule.Keywords {
			if _, ok := words[strings.ToLower(kw)]; !ok {
				matched = false
				break
			}
		}
		if matched {
			return rule.Tool
		}
	}
	return ""
}

// ParseSimplify recognises the explicit "simplify <TOOL_SLUG>" form and
// returns the slug. Reports false for anything else.
func ParseSimplify(message string) (string, bool) {
	fields := strings.Fields(strings.TrimSpace(message))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "simplify") {
		return "", false
	}
	return strings.ToUpper(fields[1]), true
}

func wordSet(message string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(message)) {
		w = strings.Trim(w, ".,!?;:'\"()")
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
