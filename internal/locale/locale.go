package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

//go:embed translation/*
var translationFS embed.FS

// Bundle holds every embedded translation
type Bundle struct {
	bundle *i18n.Bundle
	logger zerolog.Logger
}

// New loads the embedded translations with defaultLang as the fallback
func New(defaultLang string, logger zerolog.Logger) (*Bundle, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	err = fs.WalkDir(translationFS, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := translationFS.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = bundle.ParseMessageFileBytes(data, path)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}

	return &Bundle{bundle: bundle, logger: logger}, nil
}

// Languages lists the loaded language tags
func (b *Bundle) Languages() []language.Tag {
	return b.bundle.LanguageTags()
}

// Localizer picks a language from the lang cookie, then Accept-Language
func (b *Bundle) Localizer(r *http.Request) *i18n.Localizer {
	var langs []string
	if cookie, err := r.Cookie("lang"); err == nil && cookie.Value != "" {
		langs = append(langs, cookie.Value)
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		langs = append(langs, accept)
	}
	return i18n.NewLocalizer(b.bundle, langs...)
}

// T translates key for the request. Unknown keys come back unchanged.
func (b *Bundle) T(r *http.Request, key string) string {
	msg, err := b.Localizer(r).Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		b.logger.Warn().Err(err).Str("key", key).Msg("Failed to localize message")
		return key
	}
	return msg
}
