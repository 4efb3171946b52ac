package internshala

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
	baseURL   = "https://internshala.com"
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

func (s *Scraper) Source() domain.Source { return domain.SourceInternshala }

func (s *Scraper) Fetch(ctx context.Context, query string) ([]domain.RawListing, error) {
	words := strings.Fields(query)
	if len(words) > 2 {
		words = words[:2]
	}
	searchURL := fmt.Sprintf("%s/internships/keyword-%s",
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
		return nil, fmt.Errorf("internshala get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("internshala status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("internshala parse html: %w", err)
	}

	cards := doc.Find("div.internship_card")
	if cards.Length() == 0 {
		// board occasionally serves an alternate layout
		cards = doc.Find("article.internship")
	}

	var out []domain.RawListing
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		raw := domain.RawListing{
			Company:  firstText(card, "a.internship_company", "span.company_name"),
			Role:     firstText(card, "h3.job_title", "span.role_name"),
			Location: firstText(card, "span.location", "span.city"),
			Link:     firstHref(card),
		}
		if raw.Company == "" && raw.Role == "" {
			return true
		}
		out = append(out, raw)
		return len(out) < maxCards
	})

	return out, nil
}

func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, q := range selectors {
		if t := util.CleanText(sel.Find(q).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func firstHref(sel *goquery.Selection) string {
	href, ok := sel.Find("a[href]").First().Attr("href")
	if !ok {
		return ""
	}
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") {
		return baseURL + href
	}
	return href
}
