package domain

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Site is one public hostname the backend serves.
type Site struct {
	Key           string   `yaml:"key" json:"key"`
	Host          string   `yaml:"host" json:"host"`
	Aliases       []string `yaml:"aliases" json:"aliases,omitempty"`
	BaseURL       string   `yaml:"base_url" json:"base_url"`
	DefaultLocale Locale   `yaml:"default_locale" json:"default_locale"`
	Primary       bool     `yaml:"primary" json:"primary"`
}

// SiteDirectory resolves request hosts to sites. It is built once at startup and
// only read afterwards.
type SiteDirectory struct {
	byHost  map[string]Site
	primary Site
}

func NewSiteDirectory(sites []Site) (*SiteDirectory, error) {
	if len(sites) == 0 {
		return nil, errors.New("at least one site is required")
	}

	d := &SiteDirectory{byHost: make(map[string]Site)}
	primaries := 0
	for i, s := range sites {
		if s.Key == "" || s.Host == "" || s.BaseURL == "" {
			return nil, fmt.Errorf("site %d: key, host and base_url are required", i)
		}
		if _, ok := ParseLocale(string(s.DefaultLocale)); !ok {
			return nil, fmt.Errorf("site %q: unknown default_locale %q", s.Key, s.DefaultLocale)
		}
		s.BaseURL = strings.TrimRight(s.BaseURL, "/")
		for _, h := range append([]string{s.Host}, s.Aliases...) {
			d.byHost[normalizeHost(h)] = s
		}
		if s.Primary {
			primaries++
			d.primary = s
		}
	}
	switch primaries {
	case 0:
		d.primary = d.byHost[normalizeHost(sites[0].Host)]
	case 1:
	default:
		return nil, errors.New("only one site can be primary")
	}
	return d, nil
}

func (d *SiteDirectory) Primary() Site { return d.primary }

// Resolve falls back to the primary site for unknown hosts (previews, localhost).
func (d *SiteDirectory) Resolve(host string) Site {
	if s, ok := d.byHost[normalizeHost(host)]; ok {
		return s
	}
	return d.primary
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	}
	return strings.TrimSuffix(h, ".")
}

// LocaleFromPath reads a /ca/ or /en/ prefix; anything else is the fallback.
func LocaleFromPath(path string, fallback Locale) Locale {
	seg := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if l, ok := ParseLocale(seg); ok && seg == string(l) {
		return l
	}
	return fallback
}
