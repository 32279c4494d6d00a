package newsfetch

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// locale holds the Google News RSS locale parameters for a language.
type locale struct {
	HL   string
	GL   string
	CEID string
}

var locales = map[string]locale{
	"zh": {HL: "zh-CN", GL: "CN", CEID: "CN:zh-Hans"},
	"ja": {HL: "ja", GL: "JP", CEID: "JP:ja"},
	"en": {HL: "en-US", GL: "US", CEID: "US:en"},
}

func localeFor(lang string) locale {
	if l, ok := locales[lang]; ok {
		return l
	}
	return locales["en"]
}

// cleanSnippet strips markup and decodes HTML entities from an RSS
// description. Feed descriptions are HTML fragments, not documents, so a
// parse failure falls back to the raw text unescaped.
func cleanSnippet(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(raw))
	}
	return strings.TrimSpace(html.UnescapeString(doc.Text()))
}
