package fetcher

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
)

// DirFetcher replays pages saved as page-N.json under a directory or any
// afs URL. A missing page file is a short (empty) page, not an error.
type DirFetcher struct {
	fs      afs.Service
	baseURL string
	logger  *zerolog.Logger
}

// NewDirFetcher creates a fetcher over the page files under dir.
func NewDirFetcher(dir string, logger *zerolog.Logger) *DirFetcher {
	return &DirFetcher{
		fs:      afs.New(),
		baseURL: url.Normalize(dir, file.Scheme),
		logger:  logger,
	}
}

// PageFile returns the file name holding a page.
func PageFile(page int) string {
	return fmt.Sprintf("page-%d.json", page)
}

// FetchPage implements PageFetcher.
func (f *DirFetcher) FetchPage(ctx context.Context, page int) ([]catalog.RawListing, error) {
	URL := url.Join(f.baseURL, PageFile(page))

	exists, err := f.fs.Exists(ctx, URL)
	if err != nil {
		return nil, errors.WrapFetch(URL, page, err)
	}
	if !exists {
		f.logger.Warn().Int("page", page).Str("url", URL).Msg("Page file not found, treating as empty")
		return nil, nil
	}

	data, err := f.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.WrapFetch(URL, page, errors.WrapIO("read", URL, err))
	}
	listings, err := DecodeListings(data)
	if err != nil {
		return nil, errors.WrapFetch(URL, page, errors.WrapParse("json", URL, err))
	}
	return listings, nil
}
