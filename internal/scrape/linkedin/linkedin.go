package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/scrape/util"
)

const (
	loginURL = "https://www.linkedin.com/login"
	maxCards = 10
)

// Scraper drives a headless browser through the LinkedIn login and job search
// flow. The session is stateful and sequential; it is used as an opaque batch
// producer and torn down at the end of each fetch.
type Scraper struct {
	username string
	password string
}

func New(username, password string) *Scraper {
	return &Scraper{username: username, password: password}
}

func (s *Scraper) Source() domain.Source { return domain.SourceLinkedIn }

func (s *Scraper) Fetch(ctx context.Context, query string) ([]domain.RawListing, error) {
	if s.username == "" || s.password == "" {
		return nil, errors.New("linkedin credentials not configured")
	}

	words := strings.Fields(query)
	if len(words) > 3 {
		words = words[:3]
	}
	searchURL := fmt.Sprintf(
		"https://www.linkedin.com/jobs/search/?keywords=%s&f_jt=INT",
		url.QueryEscape(strings.Join(words, " ")))

	html, err := s.renderSearch(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	return parseCards(html)
}

func (s *Scraper) renderSearch(ctx context.Context, searchURL string) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`#username`, chromedp.ByID),
		chromedp.SendKeys(`#username`, s.username, chromedp.ByID),
		chromedp.SendKeys(`#password`, s.password, chromedp.ByID),
		chromedp.Click(`button[type="submit"]`),
		chromedp.Sleep(5*time.Second),
		chromedp.Navigate(searchURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(3*time.Second),
		// load a few more cards below the fold
		chromedp.Evaluate(`window.scrollBy(0, 500);`, nil),
		chromedp.Sleep(1*time.Second),
		chromedp.Evaluate(`window.scrollBy(0, 500);`, nil),
		chromedp.Sleep(1*time.Second),
		chromedp.Evaluate(`window.scrollBy(0, 500);`, nil),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("linkedin browser session: %w", err)
	}
	return html, nil
}

func parseCards(html string) ([]domain.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("linkedin parse html: %w", err)
	}

	var out []domain.RawListing
	doc.Find("div.base-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		raw := domain.RawListing{
			Company:  util.CleanText(card.Find("a.hidden-nested-link").First().Text()),
			Role:     util.CleanText(card.Find(".base-search-card__title").First().Text()),
			Location: util.CleanText(card.Find(".job-search-card__location").First().Text()),
		}
		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			raw.Link = strings.TrimSpace(href)
		}
		if raw.Company == "" && raw.Role == "" {
			return true
		}
		out = append(out, raw)
		return len(out) < maxCards
	})

	return out, nil
}
