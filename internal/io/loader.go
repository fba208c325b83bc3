// Package io implements the Input Loader (C11) and Result Emitter (C12):
// the batch runner's Go-native glue around CSV/TXT/JSON ingredient lists and
// the five output shapes.
package io

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

// Format identifies an input file's shape.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
)

// LoadIngredients parses path under format (FormatAuto sniffs extension
// then content). A missing file is a plain I/O error; an unrecognized format
// or malformed CSV/JSON body wraps domain.ErrInvalidRequest so the CLI runner
// can dispatch it to a distinct exit code. Either way the error is returned
// to the caller for a fatal, non-zero exit — never silently skipped as a
// per-ingredient failure.
func LoadIngredients(path string, format Format) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	resolved := format
	if resolved == FormatAuto || resolved == "" {
		resolved = detectFormat(path, data)
	}

	switch resolved {
	case FormatJSON:
		return parseJSON(data)
	case FormatCSV:
		return parseCSV(data)
	case FormatTXT:
		return parseTXT(data), nil
	default:
		return nil, fmt.Errorf("%w: unrecognized input format %q", domain.ErrInvalidRequest, format)
	}
}

// detectFormat sniffs by file extension first, then by content: a leading
// '[' or '{' indicates JSON, a comma on the first non-comment line indicates
// CSV, anything else is treated as TXT.
func detectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".txt":
		return FormatTXT
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}

	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ",") {
			return FormatCSV
		}
		return FormatTXT
	}
	return FormatTXT
}

func parseTXT(data []byte) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func parseCSV(data []byte) ([]string, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing csv input: %v", domain.ErrInvalidRequest, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := 0
	start := 0
	header := rows[0]
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "ingredient") {
			col = i
			start = 1
			break
		}
	}

	var out []string
	for _, row := range rows[start:] {
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		if val != "" {
			out = append(out, val)
		}
	}
	return out, nil
}

func parseJSON(data []byte) ([]string, error) {
	var asStrings []string
	if err := json.Unmarshal(data, &asStrings); err == nil {
		return asStrings, nil
	}

	var asObjects []struct {
		Ingredient string `json:"ingredient"`
	}
	if err := json.Unmarshal(data, &asObjects); err == nil {
		out := make([]string, 0, len(asObjects))
		for _, o := range asObjects {
			if o.Ingredient != "" {
				out = append(out, o.Ingredient)
			}
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: json input is neither a string array nor an array of {\"ingredient\": ...} objects", domain.ErrInvalidRequest)
}
