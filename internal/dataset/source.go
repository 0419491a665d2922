// Package dataset fetches the static snapshot the catalog is built from.
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/meur/skyatlas/internal/models"
)

// Source produces the dataset. Load is called once per process.
type Source interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// SourceFor picks an HTTP source for http(s) URLs and a file source otherwise
func SourceFor(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location}
	}
	return &FileSource{Path: location}
}

// FileSource reads a JSON snapshot from disk, gzip compressed or not
type FileSource struct {
	Path string
}

func (s *FileSource) Load(ctx context.Context) (*models.Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// HTTPSource fetches the snapshot with a single GET
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Load(ctx context.Context) (*models.Dataset, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch dataset: unexpected status %s", resp.Status)
	}
	return Decode(resp.Body)
}

var gzipMagic = []byte{0x1f, 0x8b}

// Decode parses a snapshot, transparently inflating gzip input, and validates it
func Decode(r io.Reader) (*models.Dataset, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var body io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to inflate dataset: %w", err)
		}
		defer zr.Close()
		body = zr
	}

	var d models.Dataset
	if err := json.NewDecoder(body).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Encode writes a snapshot as JSON, gzip compressed when compress is set
func Encode(w io.Writer, d *models.Dataset, compress bool) error {
	if !compress {
		return json.NewEncoder(w).Encode(d)
	}
	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(d); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
