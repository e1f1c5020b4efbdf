// Package i18n provides the form's two UI languages.
package i18n

import (
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Supported languages
const (
	Spanish = "es"
	English = "en"
)

// Catalog translates message IDs into the current language.
type Catalog struct {
	bundle    *goi18n.Bundle
	lang      string
	localizer *goi18n.Localizer
}

// New creates a catalog set to lang ("es" or "en").
func New(lang string) (*Catalog, error) {
	bundle := goi18n.NewBundle(language.Spanish)
	if err := bundle.AddMessages(language.Spanish, spanish...); err != nil {
		return nil, fmt.Errorf("failed to load spanish messages: %w", err)
	}
	if err := bundle.AddMessages(language.English, english...); err != nil {
		return nil, fmt.Errorf("failed to load english messages: %w", err)
	}

	c := &Catalog{bundle: bundle}
	if err := c.SetLanguage(lang); err != nil {
		return nil, err
	}
	return c, nil
}

// SetLanguage switches the catalog to lang.
func (c *Catalog) SetLanguage(lang string) error {
	if lang != Spanish && lang != English {
		return fmt.Errorf("unsupported language %q", lang)
	}
	c.lang = lang
	c.localizer = goi18n.NewLocalizer(c.bundle, lang)
	return nil
}

// Language returns the current language code.
func (c *Catalog) Language() string {
	return c.lang
}

// Toggle switches between the two languages and returns the new one.
func (c *Catalog) Toggle() string {
	next := English
	if c.lang == English {
		next = Spanish
	}
	// both codes are known to SetLanguage
	_ = c.SetLanguage(next)
	return next
}

// T returns the translation of id, or id itself when it is unknown.
func (c *Catalog) T(id string) string {
	msg, err := c.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return msg
}

// IDs lists every message ID the catalog knows.
func IDs() []string {
	ids := make([]string, len(spanish))
	for i, m := range spanish {
		ids[i] = m.ID
	}
	return ids
}
