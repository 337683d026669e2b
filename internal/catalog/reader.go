package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// lz4Suffix marks catalog files stored as LZ4 frames.
const lz4Suffix = ".lz4"

// maxLineBytes bounds a single catalog row.
const maxLineBytes = 4 << 20

// commentPrefix starts a comment line.
const commentPrefix = "#"

// Sentinel errors for catalog files.
var (
	ErrEmptyCatalog = errors.New("catalog file has no header")
	ErrRowWidth     = errors.New("catalog row width does not match header")
	ErrDuplicateCol = errors.New("duplicate catalog column")
)

// Open reads a catalog file. Files ending in .lz4 are decompressed on the fly.
func Open(path string, aliases map[string]string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, lz4Suffix) {
		src = lz4.NewReader(f)
	}

	tbl, err := Read(src, aliases)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	return tbl, nil
}

// Read parses a whitespace-delimited catalog: the first non-comment line names
// the columns and every further line holds one galaxy.
func Read(r io.Reader, aliases map[string]string) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	var (
		header  []string
		columns [][]float64
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		fields := strings.Fields(line)

		if header == nil {
			header = fields
			columns = make([][]float64, len(header))

			continue
		}

		if len(fields) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrRowWidth, lineNo, len(fields), len(header))
		}

		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", lineNo, header[i], err)
			}

			columns[i] = append(columns[i], v)
		}
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}

	if header == nil {
		return nil, ErrEmptyCatalog
	}

	byName := make(map[string][]float64, len(header))

	for i, name := range header {
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCol, name)
		}

		byName[name] = columns[i]
	}

	return NewTable(byName, aliases)
}
