package domain

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
)

// StaticRoute is a page that exists in every locale, e.g. /servicios, /ca/serveis, /en/services.
type StaticRoute struct {
	Paths      map[Locale]string `yaml:"paths" json:"paths"`
	ChangeFreq string            `yaml:"changefreq" json:"changefreq,omitempty"`
	Priority   float64           `yaml:"priority" json:"priority,omitempty"`
}

// ContentPaths are the per-locale path prefixes for dynamic content.
type ContentPaths struct {
	Blog    map[Locale]string `yaml:"blog" json:"blog"`
	News    map[Locale]string `yaml:"news" json:"news"`
	Landing map[Locale]string `yaml:"landing" json:"landing"`
}

// SitemapEntry is one piece of content with the paths it exists at.
type SitemapEntry struct {
	Paths      map[Locale]string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

type URLSet struct {
	XMLName    xml.Name     `xml:"urlset"`
	Xmlns      string       `xml:"xmlns,attr"`
	XmlnsXhtml string       `xml:"xmlns:xhtml,attr"`
	URLs       []SitemapURL `xml:"url"`
}

type SitemapURL struct {
	Loc        string          `xml:"loc"`
	LastMod    string          `xml:"lastmod,omitempty"`
	ChangeFreq string          `xml:"changefreq,omitempty"`
	Priority   string          `xml:"priority,omitempty"`
	Alternates []AlternateLink `xml:"xhtml:link"`
}

type AlternateLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// BuildSitemap fans every static route out to one <url> per locale, each listing
// all locales as alternates. Content entries do the same over the locales they have.
func BuildSitemap(baseURL string, routes []StaticRoute, entries []SitemapEntry) URLSet {
	base := strings.TrimRight(baseURL, "/")
	set := URLSet{Xmlns: sitemapNS, XmlnsXhtml: xhtmlNS}

	for _, r := range routes {
		set.URLs = append(set.URLs, fanOut(base, r.Paths, time.Time{}, r.ChangeFreq, r.Priority)...)
	}
	for _, e := range entries {
		set.URLs = append(set.URLs, fanOut(base, e.Paths, e.LastMod, e.ChangeFreq, e.Priority)...)
	}
	return set
}

func fanOut(base string, paths map[Locale]string, lastMod time.Time, freq string, priority float64) []SitemapURL {
	var alternates []AlternateLink
	var locs []string
	for _, l := range Locales {
		p, ok := paths[l]
		if !ok {
			continue
		}
		href := joinURL(base, p)
		alternates = append(alternates, AlternateLink{Rel: "alternate", Hreflang: string(l), Href: href})
		locs = append(locs, href)
	}

	urls := make([]SitemapURL, 0, len(locs))
	for _, loc := range locs {
		u := SitemapURL{
			Loc:        loc,
			ChangeFreq: freq,
			Alternates: append([]AlternateLink(nil), alternates...),
		}
		if !lastMod.IsZero() {
			u.LastMod = lastMod.UTC().Format("2006-01-02")
		}
		if priority > 0 {
			u.Priority = fmt.Sprintf("%.1f", priority)
		}
		urls = append(urls, u)
	}
	return urls
}

func joinURL(base, path string) string {
	if path == "" || path == "/" {
		return base + "/"
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// ContentEntry maps a published post's localized slugs onto the configured prefixes.
// Locales without a slug are skipped.
func ContentEntry(prefixes map[Locale]string, slugs LocalizedSlug, lastMod time.Time) SitemapEntry {
	paths := make(map[Locale]string)
	for _, l := range Locales {
		slug := slugs.Get(l)
		prefix, ok := prefixes[l]
		if slug == "" || !ok {
			continue
		}
		paths[l] = strings.TrimRight(prefix, "/") + "/" + slug
	}
	return SitemapEntry{Paths: paths, LastMod: lastMod, ChangeFreq: "weekly", Priority: 0.6}
}

func (s URLSet) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
