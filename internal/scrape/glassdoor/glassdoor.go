package glassdoor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/scrape/util"
)

const (
	baseURL   = "https://www.glassdoor.com"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxCards  = 10
)

type Scraper struct {
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Source() domain.Source { return domain.SourceGlassdoor }

func (s *Scraper) Fetch(ctx context.Context, query string) ([]domain.RawListing, error) {
	words := strings.Fields(query)
	if len(words) > 2 {
		words = words[:2]
	}
	searchURL := fmt.Sprintf("%s/Job/internship-%s-jobs-SRCH_KO0,11.htm",
		baseURL, strings.ToLower(strings.Join(words, "-")))

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, searchURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", baseURL+"/")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("glassdoor get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("glassdoor status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("glassdoor parse html: %w", err)
	}

	var out []domain.RawListing
	doc.Find("div.job-search-result").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		raw := domain.RawListing{
			Company:  util.CleanText(card.Find("span.company-name").First().Text()),
			Role:     util.CleanText(card.Find("a.job-title").First().Text()),
			Location: util.CleanText(card.Find("span.job-location").First().Text()),
		}
		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			href = strings.TrimSpace(href)
			if strings.HasPrefix(href, "/") {
				href = baseURL + href
			}
			raw.Link = href
		}
		if raw.Company == "" && raw.Role == "" {
			return true
		}
		out = append(out, raw)
		return len(out) < maxCards
	})

	return out, nil
}
