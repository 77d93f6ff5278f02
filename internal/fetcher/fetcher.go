// Package fetcher produces listing snapshots from a paginated source.
//
// A PageFetcher returns the raw listings of one page. Snapshot walks pages
// 1..N in order and concatenates them; it never retries on its own, since
// deciding whether a snapshot is complete belongs to the gate.
package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/internal/transport"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// Kind names a fetcher implementation.
type Kind string

// Kind constants.
const (
	KindHTML Kind = "html"
	KindJSON Kind = "json"
	KindDir  Kind = "dir"
)

// Kinds lists the supported fetcher kinds.
func Kinds() []Kind {
	return []Kind{KindHTML, KindJSON, KindDir}
}

// PageFetcher returns the raw listings of a single page. Pages are 1-based.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) ([]catalog.RawListing, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, page int) ([]catalog.RawListing, error)

// FetchPage calls f.
func (f PageFetcherFunc) FetchPage(ctx context.Context, page int) ([]catalog.RawListing, error) {
	return f(ctx, page)
}

// Snapshot fetches pages 1..pages from pf and concatenates them in order.
// The first page error aborts the pass.
func Snapshot(ctx context.Context, pf PageFetcher, pages int) (catalog.Snapshot, error) {
	if pages <= 0 {
		return nil, errors.NewConfigError("fetcher", fmt.Sprintf("page count must be positive, got %d", pages), nil)
	}

	var snapshot catalog.Snapshot
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapResource("fetch", "page", fmt.Sprint(page), errors.ErrCanceled)
		}
		pageCtx := logging.WithPage(ctx, page)
		listings, err := pf.FetchPage(pageCtx, page)
		if err != nil {
			return nil, err
		}
		logging.FromContext(pageCtx).Debug().Int("listings", len(listings)).Msg("Fetched page")
		snapshot = append(snapshot, listings...)
	}
	return snapshot, nil
}

// Selectors are the CSS selectors used to pull listings out of HTML.
type Selectors struct {
	// Item matches one element per listing.
	Item string `mapstructure:"item" yaml:"item"`
	// Name matches the display name within an item. Empty uses the link text.
	Name string `mapstructure:"name" yaml:"name"`
	// Link matches the anchor within an item. Empty uses the item itself.
	Link string `mapstructure:"link" yaml:"link"`
	// Price matches the price within an item.
	Price string `mapstructure:"price" yaml:"price"`
}

// DefaultSelectors returns selectors for a plain listing grid.
func DefaultSelectors() Selectors {
	return Selectors{
		Item:  ".listing",
		Name:  ".listing-name",
		Link:  "a[href]",
		Price: ".listing-price",
	}
}

// Stability configures the content-hash wait on rendered pages.
type Stability struct {
	// Polls is the maximum number of fetches per page.
	Polls int `mapstructure:"polls" yaml:"polls"`
	// Interval is the pause between fetches.
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// Config describes a listing source.
type Config struct {
	URL       string        `mapstructure:"url" yaml:"url"`
	Kind      Kind          `mapstructure:"kind" yaml:"kind"`
	Pages     int           `mapstructure:"pages" yaml:"pages"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Selectors Selectors     `mapstructure:"selectors" yaml:"selectors"`
	Stability Stability     `mapstructure:"stability" yaml:"stability"`
}

// DefaultConfig returns a source configuration with defaults filled in.
func DefaultConfig() Config {
	return Config{
		Kind:      KindHTML,
		UserAgent: constants.DefaultUserAgent,
		Timeout:   constants.DefaultHTTPTimeout,
		Selectors: DefaultSelectors(),
		Stability: Stability{
			Polls:    constants.DefaultStabilityPolls,
			Interval: constants.DefaultStabilityInterval,
		},
	}
}

// Validate checks the source configuration.
func (c Config) Validate() error {
	if c.Pages <= 0 {
		return errors.NewConfigError("source", fmt.Sprintf("pages must be positive, got %d", c.Pages), nil)
	}
	if strings.TrimSpace(c.URL) == "" {
		return errors.NewConfigError("source", "url is required", nil)
	}
	switch c.Kind {
	case KindHTML:
		if c.Selectors.Item == "" {
			return errors.NewConfigError("source", "selectors.item is required for html sources", nil)
		}
	case KindJSON, KindDir:
	default:
		return errors.NewConfigError("source", fmt.Sprintf("unknown kind %q", c.Kind), nil)
	}
	if c.Stability.Polls < 0 {
		return errors.NewConfigError("source", "stability.polls cannot be negative", nil)
	}
	return nil
}

// New builds the PageFetcher described by cfg.
func New(cfg Config, logger *zerolog.Logger) (PageFetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Default()
	}

	client := transport.New(
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithTimeout(cfg.Timeout),
	)

	switch cfg.Kind {
	case KindJSON:
		return NewJSONFetcher(client, cfg.URL), nil
	case KindDir:
		return NewDirFetcher(cfg.URL, logger), nil
	default:
		return NewHTMLFetcher(client, cfg.URL, cfg.Selectors, cfg.Stability, logger), nil
	}
}
