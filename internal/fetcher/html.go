package fetcher

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/internal/transport"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
)

// HTMLFetcher scrapes listings from rendered HTML pages.
//
// Pages that render progressively can return a partial list on the first
// request, so each page is re-fetched until two consecutive parses hash the
// same or the poll limit is reached.
type HTMLFetcher struct {
	client    *transport.Client
	baseURL   string
	selectors Selectors
	stability Stability
	logger    *zerolog.Logger
}

// NewHTMLFetcher creates an HTML fetcher.
func NewHTMLFetcher(client *transport.Client, baseURL string, selectors Selectors, stability Stability, logger *zerolog.Logger) *HTMLFetcher {
	return &HTMLFetcher{
		client:    client,
		baseURL:   baseURL,
		selectors: selectors,
		stability: stability,
		logger:    logger,
	}
}

// FetchPage implements PageFetcher.
func (f *HTMLFetcher) FetchPage(ctx context.Context, page int) ([]catalog.RawListing, error) {
	pageURL, err := transport.PageURL(f.baseURL, page)
	if err != nil {
		return nil, err
	}

	polls := max(f.stability.Polls, 1)
	var (
		listings []catalog.RawListing
		lastHash string
	)
	for poll := 1; poll <= polls; poll++ {
		if poll > 1 {
			if err := sleep(ctx, f.stability.Interval); err != nil {
				return nil, errors.WrapFetch(pageURL, page, err)
			}
		}

		body, err := f.client.Get(ctx, pageURL, page, "text/html")
		if err != nil {
			return nil, err
		}
		listings, err = Extract(body, pageURL, f.selectors)
		if err != nil {
			return nil, errors.WrapFetch(pageURL, page, err)
		}

		hash := Hash(listings)
		if poll > 1 && hash == lastHash {
			f.logger.Trace().Int("page", page).Int("polls", poll).Msg("Page content stable")
			return listings, nil
		}
		lastHash = hash
	}

	if polls > 1 {
		f.logger.Debug().Int("page", page).Int("polls", polls).Int("listings", len(listings)).
			Msg("Page content did not settle, using last parse")
	}
	return listings, nil
}

// Extract parses listings from an HTML document. Relative links are
// resolved against pageURL.
func Extract(body []byte, pageURL string, sel Selectors) ([]catalog.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapParse("html", pageURL, err)
	}

	var listings []catalog.RawListing
	doc.Find(sel.Item).Each(func(_ int, item *goquery.Selection) {
		link := item
		if sel.Link != "" && !item.Is(sel.Link) {
			link = item.Find(sel.Link).First()
		}
		href, _ := link.Attr("href")

		name := ""
		if sel.Name != "" {
			name = text(item.Find(sel.Name).First())
		}
		if name == "" {
			name = text(link)
		}

		price := ""
		if sel.Price != "" {
			price = text(item.Find(sel.Price).First())
		}

		listings = append(listings, catalog.RawListing{
			Name:  name,
			Href:  transport.ResolveHref(pageURL, href),
			Price: price,
		})
	})
	return listings, nil
}

// text returns the selection's text with whitespace runs collapsed.
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
