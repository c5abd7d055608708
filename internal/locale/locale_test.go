package locale_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/assurrussa/chicagotime/internal/locale"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestDetectPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		want language.Tag
	}{
		{name: "unset", env: nil, want: locale.Default},
		{name: "lang only", env: map[string]string{"LANG": "en_GB.UTF-8"}, want: language.MustParse("en-GB")},
		{name: "lc_time over lang", env: map[string]string{"LANG": "en_GB.UTF-8", "LC_TIME": "de_DE.UTF-8"}, want: language.MustParse("de-DE")},
		{name: "lc_all wins", env: map[string]string{"LC_ALL": "ja_JP", "LC_TIME": "de_DE", "LANG": "en_GB"}, want: language.MustParse("ja-JP")},
		{name: "posix", env: map[string]string{"LANG": "C.UTF-8"}, want: locale.Default},
		{name: "garbage", env: map[string]string{"LANG": "!!"}, want: locale.Default},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, locale.Detect(envOf(tt.env)))
		})
	}
}

func TestParsePOSIXStripsCodesetAndModifier(t *testing.T) {
	t.Parallel()

	tag, err := locale.ParsePOSIX("de_DE.UTF-8@euro")
	require.NoError(t, err)
	assert.Equal(t, language.MustParse("de-DE"), tag)

	tag, err = locale.ParsePOSIX("pt-BR")
	require.NoError(t, err)
	assert.Equal(t, language.BrazilianPortuguese, tag)

	_, err = locale.ParsePOSIX("not a locale")
	assert.Error(t, err)
}

func TestShortDateFormats(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.March, 7, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		tag  string
		want string
	}{
		{tag: "en-US", want: "3/7/2026"},
		{tag: "en-GB", want: "07/03/2026"},
		{tag: "de-DE", want: "07.03.2026"},
		{tag: "fr-CA", want: "2026-03-07"},
		{tag: "ja-JP", want: "2026/03/07"},
		{tag: "nl-NL", want: "7-3-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()
			got := locale.ShortDate(language.MustParse(tt.tag)).Format(day)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortDateFallsBackToDefault(t *testing.T) {
	t.Parallel()

	p := locale.ShortDate(language.MustParse("tlh"))
	assert.Equal(t, locale.Default, p.Tag)
	assert.Equal(t, "10/17/2026", p.Format(time.Date(2026, time.October, 17, 0, 0, 0, 0, time.Local)))
}
