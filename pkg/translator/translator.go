package translator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string // first entry is the fallback
}

const (
	LanguageFr = "fr"
	LanguageEn = "en"
)

var (
	supported []string
	matcher   language.Matcher
)

func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	setSupportedLanguages(cfg.SupportedLanguages)

	lstFiles, err := os.ReadDir(cfg.TranslationFolder)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, f := range lstFiles {
		if f.IsDir() || filepath.Ext(f.Name()) != ".toml" {
			continue
		}
		path := filepath.Join(cfg.TranslationFolder, f.Name())
		if _, err := Translator.LoadMessageFile(path); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
}

func setSupportedLanguages(langs []string) {
	if len(langs) == 0 {
		langs = []string{LanguageEn}
	}

	tags := make([]language.Tag, 0, len(langs))
	supported = supported[:0]
	for _, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			zap.L().Warn("ignoring unsupported language", zap.String("lang", l), zap.Error(err))
			continue
		}
		tags = append(tags, tag)
		supported = append(supported, l)
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
		supported = []string{LanguageEn}
	}
	matcher = language.NewMatcher(tags)
}

// MatchLanguage resolves an Accept-Language header to one of the supported
// languages, falling back to English.
func MatchLanguage(acceptLanguage string) string {
	if matcher == nil || strings.TrimSpace(acceptLanguage) == "" {
		return LanguageEn
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LanguageEn
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No || index >= len(supported) {
		return LanguageEn
	}
	return supported[index]
}
