package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	enc "github.com/MrJamesThe3rd/invoicer/internal/encoding"
)

const (
	DefaultBaseDir   = "files"
	DefaultDelimiter = ';'
)

// Reader loads delimiter-separated files from a base directory and splits them
// into header-keyed rows. A Reader holds no mutable state.
type Reader struct {
	baseDir   string
	delimiter rune
}

func NewReader(baseDir string, delimiter rune) (*Reader, error) {
	if !validDelimiter(delimiter) {
		return nil, fmt.Errorf("invalid delimiter %q", delimiter)
	}

	if baseDir == "" {
		baseDir = DefaultBaseDir
	}

	return &Reader{baseDir: baseDir, delimiter: delimiter}, nil
}

// Path resolves a file name against the base directory.
func (r *Reader) Path(filename string) string {
	return filepath.Join(r.baseDir, filename)
}

// Read loads the whole file and tokenizes it. The context is only consulted
// before the load; tokenizing is not interruptible.
func (r *Reader) Read(ctx context.Context, filename string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := r.Path(filename)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	return r.Parse(path, content)
}

// Load tokenizes content from an arbitrary source, e.g. an uploaded file.
// name is only used in error messages.
func (r *Reader) Load(name string, src io.Reader) ([]Row, error) {
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, &IOError{Path: name, Err: err}
	}

	return r.Parse(name, content)
}

// Parse splits already loaded content into rows, one per physical line. Blank
// and whitespace-only lines are skipped wherever they occur; the line numbers of
// the remaining rows still refer to their physical position in the content.
func (r *Reader) Parse(name string, content []byte) ([]Row, error) {
	utf8Content, charset, err := enc.Decode(content)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}

	slog.Debug("decoded file", "file", name, "charset", charset, "bytes", len(content))

	var (
		header []string
		rows   []Row
	)

	for i, text := range strings.Split(string(utf8Content), "\n") {
		text = strings.TrimSuffix(text, "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		line := i + 1
		record := r.splitLine(text)

		if header == nil {
			header, err = parseHeader(record)
			if err != nil {
				return nil, &ParseError{Path: name, Line: line, Err: err}
			}

			continue
		}

		rows = append(rows, NewRow(line, header, record))
	}

	return rows, nil
}

// splitLine tokenizes a single line. Quoted fields must close on the same line;
// when the quoting is malformed the line is split on the delimiter as is and the
// quotes stay part of the values.
func (r *Reader) splitLine(text string) []string {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = r.delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = !unicode.IsSpace(r.delimiter)

	record, err := reader.Read()
	if err != nil {
		return strings.Split(text, string(r.delimiter))
	}

	return record
}

func parseHeader(record []string) ([]string, error) {
	header := make([]string, len(record))
	named := false

	for i, col := range record {
		header[i] = strings.TrimSpace(col)
		if header[i] != "" {
			named = true
		}
	}

	if !named {
		return nil, ErrEmptyHeader
	}

	return header, nil
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' &&
		utf8.ValidRune(r) && r != utf8.RuneError
}
