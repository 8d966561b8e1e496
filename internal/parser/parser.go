package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/adlens-cli/internal/table"
)

// Options controls how raw files are turned into tables.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files, otherwise sniffed from the header line.
	Delimiter rune
	// SheetName selects an XLSX sheet by name and takes precedence over SheetIndex.
	SheetName string
	// SheetIndex is 1-based; 0 selects the first sheet.
	SheetIndex int
}

// Reader turns one tabular file format into a table.Table.
type Reader interface {
	CanRead(filename string) bool
	Read(name string, r io.Reader, opt Options) (*table.Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// Read selects a reader based on name and decodes r into a table.
func Read(name string, r io.Reader, opt Options) (*table.Table, error) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".xls") {
		return nil, fmt.Errorf("%s: legacy .xls workbooks, save as .xlsx: %w", name, ErrUnsupported)
	}
	for _, rd := range registry {
		if rd.CanRead(lower) {
			t, err := rd.Read(filepath.Base(name), r, opt)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
			return t, nil
		}
	}
	ext := filepath.Ext(name)
	if ext == "" {
		ext = name
	}
	return nil, fmt.Errorf("%s: %w", ext, ErrUnsupported)
}

// ReadFile opens path and reads it with the matching reader.
func ReadFile(path string, opt Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Read(path, f, opt)
}

// Supported reports whether some registered reader accepts name.
func Supported(name string) bool {
	lower := strings.ToLower(name)
	for _, rd := range registry {
		if rd.CanRead(lower) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
	Register(jsonReader{})
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported table format")
