package eval

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMissingQuestionColumn indicates a questions file without a "question" column.
var ErrMissingQuestionColumn = errors.New("questions file is missing a \"question\" column")

// ReadQuestionsCSV reads the "question" column from a CSV file, skipping
// blank rows.
func ReadQuestionsCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read questions header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "question") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrMissingQuestionColumn
	}

	var questions []string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read questions row: %w", err)
		}
		if col >= len(row) {
			continue
		}
		if q := strings.TrimSpace(row[col]); q != "" {
			questions = append(questions, q)
		}
	}

	return questions, nil
}

// WriteResultsCSV writes one row per outcome with the answer, the listing
// ids it was grounded on, and the elapsed time. Failed questions carry
// "ERROR: <message>" in the answer column, matching the batch format
// consumed by downstream review tooling.
func WriteResultsCSV(path string, outcomes []Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "question", "answer", "listing_ids", "elapsed_ms"}); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}

	for _, o := range outcomes {
		answer := o.Answer
		if o.Err != nil {
			answer = "ERROR: " + o.Err.Error()
		}
		row := []string{
			strconv.Itoa(o.Index),
			o.Question,
			answer,
			strings.Join(o.Ids, ";"),
			strconv.FormatInt(o.Elapsed.Milliseconds(), 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write results row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
