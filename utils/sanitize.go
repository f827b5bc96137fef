package utils

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

func newDescriptionPolicy() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").OnElements("p", "span", "ul", "li")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		descriptionPolicy = policy
	})
	return descriptionPolicy
}

// SanitizeText strips any markup from a catalog label and trims it.
// The result is plain text, escaping is left to the renderer.
func SanitizeText(s string) string {
	cleaned := strictPolicy().Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// SanitizeLabels applies SanitizeText to every label, dropping the ones left empty
func SanitizeLabels(labels []string) []string {
	if labels == nil {
		return nil
	}
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if cleaned := SanitizeText(l); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// RenderMarkdown converts a product description to sanitized HTML
func RenderMarkdown(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return newDescriptionPolicy().Sanitize(buf.String()), nil
}
