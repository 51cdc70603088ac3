package geo

import (
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/k0kubun/go-ansi"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/schollz/progressbar/v3"
)

const (
	DecoderRaw = "raw"
	DecoderOSM = "osm"
)

type OpenOptions struct {
	// Decoder picks the xml decoder: raw keeps every attribute, osm goes through paulmach/osm/osmxml.
	// pbf files always use osmpbf.
	Decoder     string
	Progress    bool
	Description string
}

// Source is an opened extract with its compression undone.
type Source struct {
	io.Reader
	// Name is the lowercased path without the compression suffix.
	Name    string
	closers []io.Closer
}

// IsPBF reports whether path names a pbf extract, compressed or not.
func IsPBF(path string) bool {
	name := strings.ToLower(path)
	for _, ext := range []string{".gz", ".zst", ".bz2"} {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.HasSuffix(name, ".pbf")
}

func (s *Source) IsPBF() bool {
	return strings.HasSuffix(s.Name, ".pbf")
}

func (s *Source) Close() error {
	return closeAll(s.closers)
}

// OpenSource opens path behind an optional progress bar and decompresses .gz, .zst and .bz2.
func OpenSource(path string, opts OpenOptions) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src := &Source{Reader: f, Name: strings.ToLower(path), closers: []io.Closer{f}}

	if opts.Progress {
		st, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		pr := progressbar.NewReader(f, newBar(st.Size(), opts.Description))
		src.Reader = &pr
	}

	switch {
	case strings.HasSuffix(src.Name, ".gz"):
		gz, err := gzip.NewReader(src.Reader)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		src.closers = append(src.closers, gz)
		src.Reader = gz
		src.Name = strings.TrimSuffix(src.Name, ".gz")
	case strings.HasSuffix(src.Name, ".zst"):
		zr, err := zstd.NewReader(src.Reader)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open zstd %s: %w", path, err)
		}
		src.closers = append(src.closers, zstdCloser{zr})
		src.Reader = zr
		src.Name = strings.TrimSuffix(src.Name, ".zst")
	case strings.HasSuffix(src.Name, ".bz2"):
		src.Reader = bzip2.NewReader(src.Reader)
		src.Name = strings.TrimSuffix(src.Name, ".bz2")
	}
	return src, nil
}

// Open opens an osm extract (.osm, .osm.pbf, optionally .gz/.zst/.bz2 compressed) as a Scanner.
func Open(ctx context.Context, path string, opts OpenOptions) (Scanner, error) {
	src, err := OpenSource(path, opts)
	if err != nil {
		return nil, err
	}

	if src.IsPBF() {
		return NewObjectScanner(osmpbf.New(ctx, src, runtime.GOMAXPROCS(-1)), src.closers...), nil
	}
	if opts.Decoder == DecoderOSM {
		return NewObjectScanner(osmxml.New(ctx, src), src.closers...), nil
	}
	return NewXMLScanner(src, src.closers...), nil
}

type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func newBar(size int64, description string) *progressbar.ProgressBar {
	if description == "" {
		description = "[cyan][1/1]Reading osm objects..."
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
