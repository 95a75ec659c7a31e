// Package importer turns external task lists (CSV, YAML, Markdown checklists)
// into task-creation requests and submits them.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fentz26/habiterm/internal/models"
)

// Sentinel errors for Parse.
var (
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrFileNotFound      = errors.New("import file not found")
)

// ParseError reports malformed import content.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s file %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Format is an import file format, chosen by file extension.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// DetectFormat maps a path to its format by exact, case-sensitive suffix.
func DetectFormat(path string) (Format, error) {
	switch {
	case strings.HasSuffix(path, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return FormatYAML, nil
	case strings.HasSuffix(path, ".md"):
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %s (want .csv, .yaml, .yml or .md)", ErrUnsupportedFormat, path)
}

// Parse reads path and returns its raw records in file order.
// A missing path wins over an unsupported extension.
func Parse(path string) ([]models.ImportRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &ParseError{Path: path, Format: format, Err: errors.New("is a directory")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}

	var records []models.ImportRecord
	switch format {
	case FormatCSV:
		records, err = parseCSV(data)
	case FormatYAML:
		records, err = parseYAML(data)
	case FormatMarkdown:
		records = parseMarkdown(data)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}
	return records, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseCSV reads a header row, then one record per data row. Column
// "Task Name" falls back to "text" and "Type" to "type" only when the
// preferred column is absent.
func parseCSV(data []byte) ([]models.ImportRecord, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []models.ImportRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		cells := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				cells[name] = row[i]
			}
		}

		rec := models.ImportRecord{}
		if text, ok := firstCell(cells, "Task Name", "text"); ok {
			rec["text"] = text
		}
		taskType, ok := firstCell(cells, "Type", "type")
		if !ok {
			taskType = string(models.DefaultType)
		}
		rec["type"] = strings.ToLower(taskType)
		records = append(records, rec)
	}
	return records, nil
}

func firstCell(cells map[string]string, names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := cells[n]; ok {
			return v, true
		}
	}
	return "", false
}

// parseYAML expects a top-level sequence of mappings. A null or empty
// document yields no records.
func parseYAML(data []byte) ([]models.ImportRecord, error) {
	var doc []map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("expected a list of tasks: %w", err)
	}

	records := make([]models.ImportRecord, 0, len(doc))
	for _, m := range doc {
		records = append(records, models.ImportRecord(m))
	}
	return records, nil
}

var checklistItem = regexp.MustCompile(`^-\s*\[\s\]\s*(.*)$`)

// parseMarkdown emits one todo per unchecked "- [ ] text" line.
func parseMarkdown(data []byte) []models.ImportRecord {
	var records []models.ImportRecord
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		m := checklistItem.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		records = append(records, models.ImportRecord{
			"text": strings.TrimSpace(m[1]),
			"type": string(models.TaskTypeTodo),
		})
	}
	return records
}
