package archive

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"

	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/scenario"
)

const (
	// JournalExt is the extension of archived journals.
	JournalExt = ".vcj.zst"

	// SummaryExt is the extension of archived run summaries.
	SummaryExt = ".json"
)

// Store writes archive objects.
type Store interface {
	// Put writes the object at key and returns where it was written.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Option configures Open.
type Option func(*options)

type options struct {
	region   string
	endpoint string
	logger   *slog.Logger
	client   PutObjectAPI
}

// WithRegion sets the S3 region.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithEndpoint sets a custom S3 endpoint, for S3-compatible stores.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClient uses client for S3 locations instead of building one.
func WithClient(client PutObjectAPI) Option {
	return func(o *options) {
		o.client = client
	}
}

// Open returns the store for location: an s3://bucket/prefix URL, a
// file:// URL or a directory path.
func Open(ctx context.Context, location string, opts ...Option) (Store, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	if !strings.Contains(location, "://") {
		if location == "" {
			return nil, errors.New("E191").WithDetail("The archive location is empty.")
		}
		return NewFileStore(location, o.logger), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, errors.New("E191").Wrap(err)
	}
	if u.Scheme == "file" && u.Path != "" {
		return NewFileStore(u.Path, o.logger), nil
	}
	if u.Scheme != "s3" || u.Host == "" {
		return nil, errors.New("E191").WithDetail("Unsupported archive location " + location + ".")
	}
	client := o.client
	if client == nil {
		client = NewS3Client(o.region, o.endpoint)
	}
	return NewS3Store(client, u.Host, strings.TrimPrefix(u.Path, "/"), o.logger), nil
}

// Manifest describes an archived run.
type Manifest struct {
	RunID     string           `json:"run"`
	Name      string           `json:"name"`
	Archived  time.Time        `json:"archived"`
	Digest    string           `json:"digest"`
	Passes    int              `json:"passes"`
	OK        bool             `json:"ok"`
	Result    *scenario.Result `json:"result"`
	Locations []string         `json:"-"`
}

// Write archives res in s and returns its manifest. The journal is stored
// zstd-compressed next to a JSON summary; both keys share the scenario name
// and the run timestamp. The digest is the BLAKE3 hash of the uncompressed
// journal.
func Write(ctx context.Context, s Store, res *scenario.Result, now time.Time) (*Manifest, error) {
	now = now.UTC()
	base := path.Join(res.Name, now.Format("20060102T150405.000Z"))

	var journal bytes.Buffer
	if err := res.WriteJournal(&journal); err != nil {
		return nil, errors.New("E190").Wrap(err)
	}
	sum := blake3.Sum256(journal.Bytes())
	compressed, err := compress(journal.Bytes())
	if err != nil {
		return nil, errors.New("E190").Wrap(err)
	}

	m := &Manifest{
		RunID:    uuid.New().String(),
		Name:     res.Name,
		Archived: now,
		Digest:   "blake3:" + hex.EncodeToString(sum[:]),
		Passes:   len(res.Passes),
		OK:       res.OK(),
		Result:   res,
	}
	summary, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.New("E190").Wrap(err)
	}

	for _, obj := range []struct {
		key, contentType string
		body             []byte
	}{
		{base + JournalExt, "application/zstd", compressed},
		{base + SummaryExt, "application/json", summary},
	} {
		loc, err := s.Put(ctx, obj.key, obj.contentType, bytes.NewReader(obj.body))
		if err != nil {
			return m, errors.New("E190").WithNode(obj.key).Wrap(err)
		}
		m.Locations = append(m.Locations, loc)
	}
	return m, nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OpenJournal returns a reader over the uncompressed frames of an archived
// journal.
func OpenJournal(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return dec.IOReadCloser(), nil
}

// FileStore writes objects below a directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, logger: logger}
}

// Put implements Store.
func (s *FileStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", errors.New("E191").WithNode(key).WithDetail("The key escapes the archive directory.")
	}
	dst := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".archive-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}

	s.logger.Debug("archived", "path", dst, "content_type", contentType)
	return dst, nil
}
