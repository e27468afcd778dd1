package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/cognicore/consult/pkg/consult/internalerr"
)

// Options controls how raw rows become records.
type Options struct {
	Markup Markup
}

// Batch is the filtered result of loading a comment table.
type Batch struct {
	Records []CommentRecord
	Dropped int // rows removed for a null body
}

// Load reads a comment table from path, choosing the decoder by extension:
// .csv, or .jsonl/.ndjson.
func Load(path string, opts Options) (Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f, opts)
	case ".jsonl", ".ndjson":
		return LoadJSONL(f, opts)
	default:
		return Batch{}, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
}

// LoadCSV reads a comment table with a header row. Every required column
// must be present; missing ones are reported together before any row is
// read. Rows with a null body are dropped. A table without data rows, or
// whose rows are all dropped, is an EmptyInputError. Cells are kept as
// written; only the body is checked against the null markers.
func LoadCSV(r io.Reader, opts Options) (Batch, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Batch{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return Batch{}, &internalerr.EmptyInputError{Stage: "ingest"}
	}
	if err := checkSchema(records[0]); err != nil {
		return Batch{}, err
	}
	if len(records) == 1 {
		return Batch{}, &internalerr.EmptyInputError{Stage: "ingest"}
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return Batch{}, fmt.Errorf("read csv: %w", df.Err)
	}

	ids := df.Col(FieldID).Records()
	names := df.Col(FieldSubmitter).Records()
	bodies := df.Col(FieldBody).Records()
	cats := df.Col(FieldCategory).Records()

	rows := make([]CommentRecord, df.Nrow())
	for i := range rows {
		rows[i] = CommentRecord{
			ID:        ids[i],
			Submitter: names[i],
			Body:      bodies[i],
			Category:  cats[i],
		}
	}
	return filter(rows, opts)
}

// LoadJSONL reads one JSON object per line. Malformed lines are skipped with
// a warning. A required key that appears on no line is a MissingFieldError.
func LoadJSONL(r io.Reader, opts Options) (Batch, error) {
	seen := make(map[string]bool)
	var rows []CommentRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			slog.Warn("skipping malformed JSON line", "line", line, "err", err)
			continue
		}
		for k := range obj {
			seen[k] = true
		}
		rows = append(rows, CommentRecord{
			ID:        cell(obj[FieldID]),
			Submitter: cell(obj[FieldSubmitter]),
			Body:      cell(obj[FieldBody]),
			Category:  cell(obj[FieldCategory]),
		})
	}
	if err := scanner.Err(); err != nil {
		return Batch{}, fmt.Errorf("read jsonl: %w", err)
	}

	var names []string
	for k := range seen {
		names = append(names, k)
	}
	if err := checkSchema(names); err != nil {
		return Batch{}, err
	}
	return filter(rows, opts)
}

// cell renders a decoded JSON value the way a CSV cell would read.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

func checkSchema(columns []string) error {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	var missing []string
	for _, f := range RequiredFields {
		if !have[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &internalerr.MissingFieldError{Fields: missing}
	}
	return nil
}

func filter(rows []CommentRecord, opts Options) (Batch, error) {
	batch := Batch{Records: make([]CommentRecord, 0, len(rows))}
	for _, rec := range rows {
		if err := rec.Validate(); err != nil {
			batch.Dropped++
			continue
		}
		rec.Body = opts.Markup.Normalize(rec.Body)
		batch.Records = append(batch.Records, rec)
	}
	if batch.Dropped > 0 {
		slog.Info("dropped rows without comment text", "dropped", batch.Dropped, "kept", len(batch.Records))
	}
	if len(batch.Records) == 0 {
		return Batch{}, &internalerr.EmptyInputError{Stage: "ingest"}
	}
	return batch, nil
}
