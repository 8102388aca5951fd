package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"nrro-site/domain"
)

const maxPageBytes = 5 << 20

// PageFetcher downloads pages for SEO audits, politely per host.
type PageFetcher struct {
	http    *resty.Client
	limiter *KeyedLimiter
}

func NewPageFetcher(timeout time.Duration, reqPerSec float64, burst int) *PageFetcher {
	c := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", "NRRO-SEO-Audit/1.0 (+https://nrro.es)").
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &PageFetcher{http: c, limiter: NewKeyedLimiter(reqPerSec, burst)}
}

func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (domain.PageSnapshot, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.PageSnapshot{}, fmt.Errorf("%w: %q is not an absolute http(s) URL", domain.ErrInvalidInput, rawURL)
	}
	if err := f.limiter.WaitURL(ctx, rawURL); err != nil {
		return domain.PageSnapshot{}, err
	}

	resp, err := f.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return domain.PageSnapshot{}, fmt.Errorf("%w: fetch %s: %v", domain.ErrUpstream, rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	snap, err := ParsePage(u, io.LimitReader(body, maxPageBytes))
	if err != nil {
		return domain.PageSnapshot{}, err
	}
	snap.StatusCode = resp.StatusCode()
	return snap, nil
}

// ParsePage extracts the audit signals from an HTML document served at page.
func ParsePage(page *url.URL, r io.Reader) (domain.PageSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.PageSnapshot{}, fmt.Errorf("parse html: %w", err)
	}

	snap := domain.PageSnapshot{
		URL:             page.String(),
		Title:           strings.TrimSpace(doc.Find("head title").First().Text()),
		MetaDescription: metaContent(doc, `meta[name="description"]`),
		Canonical:       strings.TrimSpace(doc.Find(`link[rel="canonical"]`).AttrOr("href", "")),
		Lang:            strings.TrimSpace(doc.Find("html").AttrOr("lang", "")),
		OGTitle:         metaContent(doc, `meta[property="og:title"]`),
		OGDescription:   metaContent(doc, `meta[property="og:description"]`),
		OGImage:         metaContent(doc, `meta[property="og:image"]`),
		HasViewport:     doc.Find(`meta[name="viewport"]`).Length() > 0,
		H2Count:         doc.Find("h2").Length(),
	}
	if snap.Title == "" {
		snap.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		snap.H1 = append(snap.H1, strings.TrimSpace(s.Text()))
	})
	doc.Find(`link[rel="alternate"][hreflang]`).Each(func(_ int, s *goquery.Selection) {
		snap.Hreflangs = append(snap.Hreflangs, s.AttrOr("hreflang", ""))
	})

	imgs := doc.Find("img")
	snap.ImageCount = imgs.Length()
	imgs.Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("alt"); !ok {
			snap.ImagesMissingAlt++
		}
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		target, err := page.Parse(href)
		if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
			return
		}
		if strings.EqualFold(target.Host, page.Host) {
			snap.InternalLinks++
		} else {
			snap.ExternalLinks++
		}
	})

	body := doc.Find("body")
	body.Find("script, style, noscript, template").Remove()
	snap.WordCount = len(strings.Fields(body.Text()))

	return snap, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}
