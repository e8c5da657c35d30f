package csv

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"trackremap/internal/config"
)

// Options configures the CSV reader and writer.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// LazyQuotes lets a quote appear in an unquoted field and a non-doubled
	// quote appear in a quoted field.
	LazyQuotes bool

	// TrimSpace trims surrounding whitespace from every data cell. Off by
	// default so that cells pass through untouched.
	TrimSpace bool

	// TrimHeader trims surrounding whitespace from header cells.
	TrimHeader bool

	// Encoding is a WHATWG label ("utf-8", "windows-1252", "latin1", ...).
	// Empty means UTF-8.
	Encoding string
}

// DefaultOptions returns the options used for catalog exports.
func DefaultOptions() Options {
	return Options{Comma: ',', TrimHeader: true}
}

// OptionsFrom reads parser options from a job's option bag.
//
// Recognized keys:
//   - comma (string; first rune used; default ',')
//   - lazy_quotes (bool; default false)
//   - trim_space (bool; default false)
//   - trim_header (bool; default true)
//   - encoding (string; default "utf-8")
func OptionsFrom(o config.Options) Options {
	d := DefaultOptions()
	return Options{
		Comma:      o.Rune("comma", d.Comma),
		LazyQuotes: o.Bool("lazy_quotes", d.LazyQuotes),
		TrimSpace:  o.Bool("trim_space", d.TrimSpace),
		TrimHeader: o.Bool("trim_header", d.TrimHeader),
		Encoding:   o.String("encoding", d.Encoding),
	}
}

func (o Options) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

// decoder resolves Encoding. It returns nil for UTF-8, which is read as-is.
func (o Options) decoder() (*encoding.Decoder, error) {
	label := strings.TrimSpace(o.Encoding)
	if label == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, err
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil, nil
	}
	return enc.NewDecoder(), nil
}
