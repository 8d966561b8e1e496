package analysis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SourceType is the attribution of a CRM order.
type SourceType string

const (
	SourceAdvertising SourceType = "advertising"
	SourceOther       SourceType = "other"
)

// DefaultOrganicKeywords mark a CRM source as a non-advertising channel when
// they appear anywhere in the lower-cased value.
var DefaultOrganicKeywords = []string{
	"organic", "direct", "none", "null", "undefined",
	"сайт", "site", "прямой", "рекомендация",
	"recommendation", "поиск", "search", "google", "yandex",
	"соцсети", "social", "vk", "facebook", "instagram",
	"telegram", "whatsapp", "email", "рассылка", "unknown",
	"не указано", "другое", "other",
}

// Classifier decides whether a CRM source value refers to an advertisement.
// It is safe for concurrent use.
type Classifier struct {
	keywords []string
}

// NewClassifier returns a classifier using DefaultOrganicKeywords plus extra.
func NewClassifier(extra ...string) *Classifier {
	kw := append([]string(nil), DefaultOrganicKeywords...)
	for _, k := range extra {
		k = strings.TrimSpace(k)
		if k != "" {
			kw = append(kw, cases.Lower(language.Und).String(k))
		}
	}
	return &Classifier{keywords: kw}
}

// Classify returns SourceAdvertising only for values made of ASCII digits
// after trimming and id canonicalization. Everything else is SourceOther.
func (c *Classifier) Classify(raw string) SourceType {
	st, _ := c.Explain(raw)
	return st
}

// Explain is Classify plus the organic keyword that matched, if any.
func (c *Classifier) Explain(raw string) (SourceType, string) {
	v := canonicalID(raw)
	if v == "" {
		return SourceOther, ""
	}
	if isDigits(v) {
		return SourceAdvertising, ""
	}
	lower := cases.Lower(language.Und).String(v)
	for _, k := range c.keywords {
		if strings.Contains(lower, k) {
			return SourceOther, k
		}
	}
	return SourceOther, ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
