package domain

import "strings"

type Locale string

const (
	LocaleES Locale = "es"
	LocaleCA Locale = "ca"
	LocaleEN Locale = "en"
)

// Locales is the fixed fan-out order used everywhere a page exists per locale.
var Locales = []Locale{LocaleES, LocaleCA, LocaleEN}

func ParseLocale(s string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Locales {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// LocalizedText is embedded with a prefix, e.g. title_es / title_ca / title_en.
type LocalizedText struct {
	ES string `gorm:"column:es;type:text" json:"es"`
	CA string `gorm:"column:ca;type:text" json:"ca"`
	EN string `gorm:"column:en;type:text" json:"en"`
}

func (t LocalizedText) Get(l Locale) string {
	switch l {
	case LocaleCA:
		return t.CA
	case LocaleEN:
		return t.EN
	default:
		return t.ES
	}
}

func (t *LocalizedText) Set(l Locale, v string) {
	switch l {
	case LocaleCA:
		t.CA = v
	case LocaleEN:
		t.EN = v
	default:
		t.ES = v
	}
}

// LocalizedSlug is LocalizedText restricted to indexable column sizes.
type LocalizedSlug struct {
	ES string `gorm:"column:es;size:191;index" json:"es"`
	CA string `gorm:"column:ca;size:191;index" json:"ca"`
	EN string `gorm:"column:en;size:191;index" json:"en"`
}

func (s LocalizedSlug) Get(l Locale) string {
	return LocalizedText(s).Get(l)
}

func (s *LocalizedSlug) Set(l Locale, v string) {
	t := LocalizedText(*s)
	t.Set(l, v)
	*s = LocalizedSlug(t)
}
