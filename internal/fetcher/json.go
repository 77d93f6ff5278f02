package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/agentstation/shelf/internal/transport"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
)

// JSONFetcher reads listings from a JSON endpoint.
type JSONFetcher struct {
	client  *transport.Client
	baseURL string
}

// NewJSONFetcher creates a JSON fetcher.
func NewJSONFetcher(client *transport.Client, baseURL string) *JSONFetcher {
	return &JSONFetcher{client: client, baseURL: baseURL}
}

// FetchPage implements PageFetcher.
func (f *JSONFetcher) FetchPage(ctx context.Context, page int) ([]catalog.RawListing, error) {
	pageURL, err := transport.PageURL(f.baseURL, page)
	if err != nil {
		return nil, err
	}
	body, err := f.client.Get(ctx, pageURL, page, "application/json")
	if err != nil {
		return nil, err
	}
	listings, err := DecodeListings(body)
	if err != nil {
		return nil, errors.WrapFetch(pageURL, page, errors.WrapParse("json", pageURL, err))
	}
	return listings, nil
}

// jsonListing accepts the field spellings common in listing feeds.
type jsonListing struct {
	Name  string    `json:"name"`
	Title string    `json:"title"`
	Href  string    `json:"href"`
	URL   string    `json:"url"`
	Link  string    `json:"link"`
	Price flexPrice `json:"price"`
}

func (l jsonListing) raw() catalog.RawListing {
	return catalog.RawListing{
		Name:  firstNonEmpty(l.Name, l.Title),
		Href:  firstNonEmpty(l.Href, l.URL, l.Link),
		Price: string(l.Price),
	}
}

// flexPrice decodes a price given as a string or a number.
type flexPrice string

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = flexPrice(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = flexPrice(n.String())
	return nil
}

// DecodeListings decodes a bare array of listings or an object holding one
// under "listings" or "items".
func DecodeListings(data []byte) ([]catalog.RawListing, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var items []jsonListing
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
	} else {
		var envelope struct {
			Listings []jsonListing `json:"listings"`
			Items    []jsonListing `json:"items"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, err
		}
		items = envelope.Listings
		if items == nil {
			items = envelope.Items
		}
	}

	listings := make([]catalog.RawListing, 0, len(items))
	for _, item := range items {
		listings = append(listings, item.raw())
	}
	return listings, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
