package careers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/scrape/util"
)

const (
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	perCompany    = 5
	fetchWorkers  = 4
	maxRoleLength = 80
)

type Company struct {
	Name string
	URL  string
}

type Config struct {
	Companies []Company
}

// Scraper sweeps configured company career pages for intern roles. Pages are
// fetched with a bounded worker pool, but results are flattened in company
// order so the batch handed back is deterministic.
type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Source() domain.Source { return domain.SourceCareers }

func (s *Scraper) Fetch(ctx context.Context, _ string) ([]domain.RawListing, error) {
	batches := make([][]domain.RawListing, len(s.cfg.Companies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchWorkers)

	for i, co := range s.cfg.Companies {
		g.Go(func() error {
			raws, err := s.fetchCompany(gctx, co)
			if err != nil {
				// one unreachable career page must not sink the sweep
				log.Printf("[careers] company=%q err=%v", co.Name, err)
				return nil
			}
			batches[i] = raws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.RawListing
	for _, b := range batches {
		out = append(out, b...)
	}
	return out, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.RawListing, error) {
	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, co.URL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, co.URL, nil)
	req.Header.Set("User-Agent", userAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("careers get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("careers status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("careers parse html: %w", err)
	}

	// Career pages differ wildly; look for common job/posting block patterns.
	blocks := doc.Find(`div[class*="job"], div[class*="posting"], article[class*="job"], article[class*="posting"]`)

	var out []domain.RawListing
	blocks.EachWithBreak(func(_ int, block *goquery.Selection) bool {
		role := util.CleanText(block.Find(`h2[class*="title"], h3[class*="title"], a[class*="title"], a[class*="job"]`).First().Text())
		if role == "" || !strings.Contains(strings.ToLower(role), "intern") {
			return true
		}

		link := co.URL
		if href, ok := block.Find("a[href]").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			link = absoluteURL(co.URL, strings.TrimSpace(href))
		}

		out = append(out, domain.RawListing{
			Company:  co.Name,
			Role:     util.Clip(role, maxRoleLength),
			Location: util.CleanText(block.Find(`span[class*="location"], div[class*="location"]`).First().Text()),
			Link:     link,
		})
		return len(out) < perCompany
	})

	return out, nil
}

func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		if i := strings.Index(base, "://"); i >= 0 {
			if j := strings.Index(base[i+3:], "/"); j >= 0 {
				return base[:i+3+j] + href
			}
		}
		return strings.TrimRight(base, "/") + href
	}
	return strings.TrimRight(base, "/") + "/" + href
}
