package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
)

// Service runs the read, validate and convert pipeline. It keeps no state
// between calls and is safe for concurrent use.
type Service struct {
	source    Source
	schema    Schema
	validator *Validator
}

func NewService(source Source, schema Schema) (*Service, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return &Service{
		source:    source,
		schema:    schema,
		validator: NewValidator(schema),
	}, nil
}

// Schema returns the schema rows are validated against.
func (s *Service) Schema() Schema {
	return s.schema
}

// Import reads filename from the source and partitions its rows. Only a file
// that cannot be read or tokenized fails the call; bad rows end up in KO.
func (s *Service) Import(ctx context.Context, filename string) (*Result, error) {
	rows, err := s.source.Read(ctx, filename)
	if err != nil {
		return nil, &ImportError{File: filename, Err: err}
	}

	return s.finish(filename, rows), nil
}

// ImportReader runs the pipeline over content that is already open, such as an
// uploaded file.
func (s *Service) ImportReader(ctx context.Context, name string, r io.Reader) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ImportError{File: name, Err: err}
	}

	rows, err := s.source.Load(name, r)
	if err != nil {
		return nil, &ImportError{File: name, Err: err}
	}

	return s.finish(name, rows), nil
}

func (s *Service) finish(name string, rows []csvfile.Row) *Result {
	result := s.Process(rows)

	if len(rows) > 0 {
		if missing := MissingColumns(rows[0].Columns()); len(missing) > 0 {
			slog.Warn("file is missing expected columns", "file", name, "columns", missing)
		}
	}

	slog.Info("imported invoice file",
		"file", name,
		"rows", result.Rows(),
		"ok", len(result.OK),
		"ko", len(result.KO),
	)

	return result
}

// Process validates and converts rows in order.
func (s *Service) Process(rows []csvfile.Row) *Result {
	result := &Result{}

	for _, row := range rows {
		if errs := s.validator.Validate(row); len(errs) > 0 {
			result.KO = append(result.KO, FailedRow{Line: row.Line, Errors: errs})
			continue
		}

		result.OK = append(result.OK, toInvoice(s.schema, row))
	}

	return result
}
