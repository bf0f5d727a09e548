package taskmanager

import (
	"fmt"
	"strings"
)

// ContainsText returns an XPath query matching tag elements whose own text
// contains text. An empty tag matches any element.
func ContainsText(tag, text string) string {
	if tag == "" {
		tag = "*"
	}
	return fmt.Sprintf("//%s[contains(text(), %s)]", tag, xpathLiteral(text))
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a string holding both quote kinds is built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	args := make([]string, 0, 2*len(parts)-1)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if p != "" {
			args = append(args, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
