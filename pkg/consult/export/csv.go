package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/cognicore/consult/pkg/consult/ingest"
	"github.com/cognicore/consult/pkg/consult/internalerr"
	"github.com/cognicore/consult/pkg/consult/sentiment"
)

// Result columns appended to the input columns.
const (
	ColumnSentiment    = "sentiment"
	ColumnPolarity     = "polarity_score"
	ColumnSubjectivity = "subjectivity_score"
)

// DetailColumns is the header of the detailed-results export.
var DetailColumns = append(append([]string(nil), ingest.RequiredFields...),
	ColumnSentiment, ColumnPolarity, ColumnSubjectivity)

// DetailFrame loads the detailed table into a string-typed dataframe.
func DetailFrame(details []sentiment.Detail) (dataframe.DataFrame, error) {
	if len(details) == 0 {
		return dataframe.DataFrame{}, &internalerr.EmptyInputError{Stage: "export"}
	}

	records := make([][]string, 0, len(details)+1)
	records = append(records, DetailColumns)
	for _, d := range details {
		records = append(records, []string{
			d.ID,
			d.Submitter,
			d.Text,
			d.Category,
			string(d.Label),
			formatScore(d.Polarity),
			formatScore(d.Subjectivity),
		})
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build detail frame: %w", df.Err)
	}
	return df, nil
}

// WriteDetailsCSV writes the detailed table as CSV with a header row.
func WriteDetailsCSV(w io.Writer, details []sentiment.Detail) error {
	df, err := DetailFrame(details)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// formatScore prints the shortest representation of an already rounded score.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
