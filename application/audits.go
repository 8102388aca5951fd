package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"nrro-site/domain"
)

type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (domain.PageSnapshot, error)
}

type AuditStore interface {
	Create(ctx context.Context, a *domain.AuditResult) error
	Get(ctx context.Context, id uint) (*domain.AuditResult, error)
	List(ctx context.Context, url string, limit, offset int) ([]domain.AuditResult, error)
}

// AuditOutcome is the result for one URL of a run; exactly one of Result and
// Error is set.
type AuditOutcome struct {
	URL    string              `json:"url"`
	Result *domain.AuditResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

type AuditService struct {
	Fetcher     PageFetcher
	Audits      AuditStore
	Concurrency int
	Log         logrus.FieldLogger
}

// Run audits every URL, at most Concurrency at a time. A URL that fails is
// reported in its outcome and does not stop the others. Outcomes keep the
// order of urls, with duplicates and blanks dropped.
func (s *AuditService) Run(ctx context.Context, urls []string) ([]AuditOutcome, error) {
	urls = dedupe(urls)
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: at least one URL is required", domain.ErrInvalidInput)
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = 4
	}

	out := make([]AuditOutcome, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			out[i] = s.auditOne(gctx, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AuditService) auditOne(ctx context.Context, u string) AuditOutcome {
	log := s.Log.WithField("url", u)

	snap, err := s.Fetcher.Fetch(ctx, u)
	if err != nil {
		log.WithError(err).Warn("audit fetch failed")
		return AuditOutcome{URL: u, Error: err.Error()}
	}
	scores, issues := domain.EvaluatePage(snap)
	res := domain.NewAuditResult(snap, scores, issues)
	if err := s.Audits.Create(ctx, &res); err != nil {
		log.WithError(err).Error("store audit result")
		return AuditOutcome{URL: u, Error: "could not store audit result"}
	}
	log.WithFields(logrus.Fields{"overall": res.OverallScore, "issues": len(res.Issues)}).Info("page audited")
	return AuditOutcome{URL: u, Result: &res}
}

func (s *AuditService) Get(ctx context.Context, id uint) (*domain.AuditResult, error) {
	return s.Audits.Get(ctx, id)
}

func (s *AuditService) List(ctx context.Context, url string, limit, offset int) ([]domain.AuditResult, error) {
	return s.Audits.List(ctx, url, limit, offset)
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
