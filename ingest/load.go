package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/domus/core"
)

// LoadListingsCSV reads listings from a CSV file with "id" and "text"
// columns. Extra columns are carried along as listing metadata. Rows with a
// blank id or text are skipped.
func LoadListingsCSV(path string) ([]*core.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listings file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read listings header: %w", err)
	}

	cols := columnIndex(header)
	idCol, okId := cols["id"]
	textCol, okText := cols["text"]
	if !okId || !okText {
		return nil, fmt.Errorf("%w: need \"id\" and \"text\"", ErrMissingColumns)
	}

	var listings []*core.Listing
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read listings row: %w", err)
		}

		key := core.NormalizeKey(field(row, idCol))
		text := strings.TrimSpace(field(row, textCol))
		if key == "" || text == "" {
			continue
		}

		var metadata map[string]string
		for name, col := range cols {
			if name == "id" || name == "text" {
				continue
			}
			if v := strings.TrimSpace(field(row, col)); v != "" {
				if metadata == nil {
					metadata = make(map[string]string)
				}
				metadata[name] = v
			}
		}

		listings = append(listings, &core.Listing{
			Key:      key,
			Text:     text,
			Metadata: metadata,
		})
	}

	return listings, nil
}

// LoadExamplesCSV reads question/Cypher example pairs from a CSV file with
// "Question" and "Cypher" columns. Rows missing either value are skipped.
func LoadExamplesCSV(path string) ([]*core.QueryExample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open examples file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read examples header: %w", err)
	}

	cols := columnIndex(header)
	questionCol, okQ := cols["question"]
	cypherCol, okC := cols["cypher"]
	if !okQ || !okC {
		return nil, fmt.Errorf("%w: need \"Question\" and \"Cypher\"", ErrMissingColumns)
	}

	var examples []*core.QueryExample
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read examples row: %w", err)
		}

		question := strings.TrimSpace(field(row, questionCol))
		cypher := strings.TrimSpace(field(row, cypherCol))
		if question == "" || cypher == "" {
			continue
		}

		examples = append(examples, &core.QueryExample{
			Question: question,
			Cypher:   cypher,
		})
	}

	return examples, nil
}

// columnIndex maps lowercased, trimmed header names to their positions.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
