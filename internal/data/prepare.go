package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// SchemaError reports a required column missing from the raw input.
type SchemaError struct {
	Column string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("data: required column %q absent from input", e.Column)
}

// Prepare builds a Dataset from a raw header plus rows. It selects the label
// column and the ten tracking features by name, drops every row with a
// missing or unparseable value, and assigns class indices over a sorted label
// vocabulary so identical inputs always yield identical encodings. The number
// of dropped rows is returned alongside the Dataset.
func Prepare(header []string, rows [][]string) (*Dataset, int, error) {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	if _, ok := col[LabelColumn]; !ok {
		return nil, 0, SchemaError{Column: LabelColumn}
	}
	featIdx := make([]int, len(FeatureColumns))
	for i, name := range FeatureColumns {
		j, ok := col[name]
		if !ok {
			return nil, 0, SchemaError{Column: name}
		}
		featIdx[i] = j
	}
	labelIdx := col[LabelColumn]

	type parsed struct {
		label string
		vec   []float64
	}
	kept := make([]parsed, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		label, vec, ok := parseRow(row, labelIdx, featIdx)
		if !ok {
			dropped++
			continue
		}
		kept = append(kept, parsed{label: label, vec: vec})
	}

	seen := map[string]bool{}
	labels := []string{}
	for _, p := range kept {
		if !seen[p.label] {
			seen[p.label] = true
			labels = append(labels, p.label)
		}
	}
	sort.Strings(labels)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	ds := &Dataset{
		FeatureNames: append([]string(nil), FeatureColumns...),
		Labels:       labels,
		X:            make([][]float64, len(kept)),
		Y:            make([]int, len(kept)),
	}
	for i, p := range kept {
		ds.X[i] = p.vec
		ds.Y[i] = index[p.label]
	}
	return ds, dropped, nil
}

func parseRow(row []string, labelIdx int, featIdx []int) (string, []float64, bool) {
	if labelIdx >= len(row) {
		return "", nil, false
	}
	label := strings.TrimSpace(row[labelIdx])
	if label == "" || label == "NA" || label == "null" {
		return "", nil, false
	}
	vec := make([]float64, len(featIdx))
	for i, j := range featIdx {
		if j >= len(row) {
			return "", nil, false
		}
		s := strings.TrimSpace(row[j])
		if s == "" || s == "NA" || s == "null" {
			return "", nil, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", nil, false
		}
		vec[i] = v
	}
	return label, vec, true
}

// Load reads a CSV file and prepares it.
func Load(path string) (*Dataset, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(rows) < 1 {
		return nil, 0, SchemaError{Column: LabelColumn}
	}
	return Prepare(rows[0], rows[1:])
}
