// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package locale holds the multi-language value used by listing and profile
// columns. Arabic is the primary language and is always present; English is
// optional.
package locale

import "strings"

// Text is a translatable string stored as a JSONB object {"ar": ..., "en": ...}.
type Text struct {
	Ar string  `json:"ar"`
	En *string `json:"en,omitempty"`
}

// IsZero reports whether the primary translation is blank.
func (t Text) IsZero() bool {
	return strings.TrimSpace(t.Ar) == ""
}

// In returns the translation for lang, falling back to Arabic.
func (t Text) In(lang string) string {
	if lang == "en" && t.En != nil && *t.En != "" {
		return *t.En
	}
	return t.Ar
}
