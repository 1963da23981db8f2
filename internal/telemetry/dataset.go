package telemetry

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Dataset is an ordered collection of telemetry records. Order matters
// only for reproducibility of generated data, not for training.
type Dataset []Record

// ReadCSV reads a dataset from CSV. The header row names the columns;
// mapping is by field name, not position, so column order is free.
func ReadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	for _, name := range FeatureNames {
		if _, ok := colIdx[name]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", name)
		}
	}

	var ds Dataset
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		line++

		fields := make(map[string]float64, NumFeatures)
		for _, name := range FeatureNames {
			raw := row[colIdx[name]]
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: invalid number %q", line, name, raw)
			}
			fields[name] = v
		}

		rec, err := FromMap(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		ds = append(ds, rec)
	}

	return ds, nil
}

// ReadJSONL reads a dataset with one JSON record per line. Unknown keys
// are rejected so a misspelled field fails loudly instead of defaulting
// to zero.
func ReadJSONL(r io.Reader) (Dataset, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var ds Dataset
	line := 0
	for {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
		ds = append(ds, rec)
	}
	if len(ds) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	return ds, nil
}

// WriteCSV writes the dataset with a header row in FeatureNames order.
func WriteCSV(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(FeatureNames); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, NumFeatures)
	for _, rec := range ds {
		for i, v := range rec.Features() {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
