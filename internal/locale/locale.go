// Package locale resolves the host locale and its short numeric date pattern.
package locale

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Default is used when the host locale is unset, "C", "POSIX" or unsupported.
var Default = language.AmericanEnglish

// Pattern is a short date format expressed as a Go time layout.
type Pattern struct {
	Tag    language.Tag
	Layout string
}

func (p Pattern) Format(t time.Time) string {
	return t.Format(p.Layout)
}

// shortDates mirrors the CLDR short date patterns for the supported locales.
// The first entry is the fallback.
var shortDates = []Pattern{
	{Tag: language.AmericanEnglish, Layout: "1/2/2006"},
	{Tag: language.BritishEnglish, Layout: "02/01/2006"},
	{Tag: language.MustParse("en-AU"), Layout: "2/01/2006"},
	{Tag: language.MustParse("en-CA"), Layout: "2006-01-02"},
	{Tag: language.German, Layout: "02.01.2006"},
	{Tag: language.French, Layout: "02/01/2006"},
	{Tag: language.CanadianFrench, Layout: "2006-01-02"},
	{Tag: language.Spanish, Layout: "02/01/2006"},
	{Tag: language.Italian, Layout: "02/01/2006"},
	{Tag: language.BrazilianPortuguese, Layout: "02/01/2006"},
	{Tag: language.EuropeanPortuguese, Layout: "02/01/2006"},
	{Tag: language.Dutch, Layout: "2-1-2006"},
	{Tag: language.Russian, Layout: "02.01.2006"},
	{Tag: language.Polish, Layout: "02.01.2006"},
	{Tag: language.Turkish, Layout: "2.01.2006"},
	{Tag: language.Swedish, Layout: "2006-01-02"},
	{Tag: language.Japanese, Layout: "2006/01/02"},
	{Tag: language.SimplifiedChinese, Layout: "2006/1/2"},
	{Tag: language.Korean, Layout: "2006-01-02"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(shortDates))
	for _, p := range shortDates {
		tags = append(tags, p.Tag)
	}
	return language.NewMatcher(tags)
}()

// ShortDate returns the short date pattern closest to tag.
func ShortDate(tag language.Tag) Pattern {
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return shortDates[0]
	}
	return shortDates[idx]
}

// Detect reads the host locale from LC_ALL, LC_TIME and LANG, in that order.
func Detect(getenv func(string) string) language.Tag {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			continue
		}
		tag, err := ParsePOSIX(raw)
		if err != nil {
			return Default
		}
		return tag
	}
	return Default
}

// ParsePOSIX parses names like "de_DE.UTF-8@euro" as well as BCP 47 tags.
func ParsePOSIX(raw string) (language.Tag, error) {
	name := strings.TrimSpace(raw)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "", "C", "POSIX":
		return Default, nil
	}

	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", raw, err)
	}
	return tag, nil
}
