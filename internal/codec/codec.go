package codec

import (
	"fmt"
	"io"

	"netscope/internal/domain"
)

// Importer reads a previously exported snapshot
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter writes a snapshot or a single query result
type Exporter interface {
	Export(v any, w io.Writer) error
	Format() string
}

// ForFormat returns the exporter for a format name
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "table", "":
		return NewTableCodec(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// ImporterFor returns the importer for a format name
func ImporterFor(format string) (Importer, error) {
	switch format {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("cannot import format: %s", format)
	}
}
