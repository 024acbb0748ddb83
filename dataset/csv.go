package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/cybershield/pkg/errors"
)

// LoadCSV reads a labeled corpus from a CSV file with a header row. The
// named text and label columns are extracted; every other column is
// ignored. Labels may be integers or fractional annotator scores, which
// are binarized at the 0.5 threshold. Rows whose text cleans to the empty
// string are dropped.
func LoadCSV(id, path, textColumn, labelColumn string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %s: open", id)
	}
	defer f.Close()
	return ReadCSV(id, f, textColumn, labelColumn)
}

// ReadCSV is LoadCSV over an already-open reader.
func ReadCSV(id string, r io.Reader, textColumn, labelColumn string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %s: read header", id)
	}

	textIdx, labelIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case strings.ToLower(textColumn):
			textIdx = i
		case strings.ToLower(labelColumn):
			labelIdx = i
		}
	}
	if textIdx < 0 {
		return nil, errors.NewConfigurationError("text_column", textColumn)
	}
	if labelIdx < 0 {
		return nil, errors.NewConfigurationError("label_column", labelColumn)
	}

	var texts []string
	var labels []int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "dataset %s: read row", id)
		}
		if textIdx >= len(record) || labelIdx >= len(record) {
			continue
		}
		label, err := parseLabel(record[labelIdx])
		if err != nil {
			continue
		}
		texts = append(texts, record[textIdx])
		labels = append(labels, label)
	}

	return New(id, texts, labels)
}

// parseLabel binarizes a raw label cell: fractional scores at or above 0.5
// map to the positive class.
func parseLabel(raw string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.NewValueError("parseLabel", "label is not numeric: "+raw)
	}
	if v >= 0.5 {
		return 1, nil
	}
	return 0, nil
}
