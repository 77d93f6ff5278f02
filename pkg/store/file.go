package store

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
)

// FileStore keeps the catalog as a single document at an afs URL. Plain
// paths are treated as local files; any scheme afs understands works.
type FileStore struct {
	fs     afs.Service
	url    string
	format Format
	logger *zerolog.Logger
}

// NewFileStore creates a store for the document at URL.
func NewFileStore(URL string, opts ...Option) (*FileStore, error) {
	if URL == "" {
		return nil, errors.NewConfigError("store", "document URL is required", nil)
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	format := o.format
	if !o.formatSet {
		format = FormatFromURL(URL)
	}
	return &FileStore{
		fs:     afs.New(),
		url:    url.Normalize(URL, file.Scheme),
		format: format,
		logger: o.logger,
	}, nil
}

// URL returns the normalized document URL.
func (s *FileStore) URL() string {
	return s.url
}

// Format returns the document encoding.
func (s *FileStore) Format() Format {
	return s.format
}

// Load reads the catalog. It only returns an error when ctx is done; every
// storage or decoding problem degrades to an empty catalog with a warning.
func (s *FileStore) Load(ctx context.Context) (catalog.Records, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists, err := s.fs.Exists(ctx, s.url)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", s.url).Msg("Cannot stat catalog, starting empty")
		return catalog.Records{}, nil
	}
	if !exists {
		s.logger.Debug().Str("url", s.url).Msg("No catalog document, starting empty")
		return catalog.Records{}, nil
	}

	data, err := s.fs.DownloadWithURL(ctx, s.url)
	if err != nil {
		s.logger.Warn().Err(errors.WrapIO("read", s.url, err)).Msg("Cannot read catalog, starting empty")
		return catalog.Records{}, nil
	}

	records, err := s.decode(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Cannot decode catalog, starting empty")
		return catalog.Records{}, nil
	}

	return Sanitize(records, s.logger), nil
}

// Save writes the catalog. Records must carry unique non-empty ids. Local
// documents are written to a sibling temp file first and then renamed.
func (s *FileStore) Save(ctx context.Context, records []catalog.Record) error {
	if err := catalog.Records(records).Validate(); err != nil {
		return err
	}

	data, err := s.encode(records)
	if err != nil {
		return errors.WrapIO("encode", s.url, err)
	}

	if url.Scheme(s.url, file.Scheme) != file.Scheme {
		if err := s.fs.Upload(ctx, s.url, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
			return errors.WrapIO("write", s.url, err)
		}
		return nil
	}

	tmp := s.url + ".tmp"
	if err := s.fs.Upload(ctx, tmp, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := s.fs.Move(ctx, tmp, s.url); err != nil {
		_ = s.fs.Delete(ctx, tmp)
		return errors.WrapIO("rename", s.url, err)
	}

	s.logger.Debug().Str("url", s.url).Int("records", len(records)).Msg("Saved catalog")
	return nil
}

func (s *FileStore) decode(data []byte) ([]catalog.Record, error) {
	var records []catalog.Record
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	switch s.format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, errors.WrapParse("yaml", s.url, err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, errors.WrapParse("json", s.url, err)
		}
	}
	return records, nil
}

func (s *FileStore) encode(records []catalog.Record) ([]byte, error) {
	if records == nil {
		records = []catalog.Record{}
	}
	switch s.format {
	case FormatYAML:
		return yaml.Marshal(records)
	default:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
