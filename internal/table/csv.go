package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadCSV reads a relation from CSV text.
//
// The first record is the header unless opts.NoHeader is set. All records
// must have the same number of fields.
func LoadCSV(r io.Reader, opts LoadOptions) (*Relation, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
			return nil, fmt.Errorf("%w: %v", ErrRaggedRow, err)
		}
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoColumns
	}

	var names []string
	if opts.NoHeader {
		names = make([]string, len(records[0]))
		for i := range names {
			names[i] = "col" + strconv.Itoa(i)
		}
	} else {
		names, records = records[0], records[1:]
	}

	return NewRelation(names, records, opts)
}

// LoadCSVFile opens path and reads it with LoadCSV.
func LoadCSVFile(path string, opts LoadOptions) (*Relation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	rel, err := LoadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rel, nil
}
