package ingest

import "errors"

// Required input columns, in schema order.
const (
	FieldID        = "comment_id"
	FieldSubmitter = "stakeholder_name"
	FieldBody      = "comment_text"
	FieldCategory  = "provision_reference"
)

// RequiredFields lists the columns every input table must carry.
var RequiredFields = []string{FieldID, FieldSubmitter, FieldBody, FieldCategory}

// CommentRecord is one stakeholder comment. Records are never mutated after
// ingestion.
type CommentRecord struct {
	ID        string `json:"comment_id"`
	Submitter string `json:"stakeholder_name"`
	Body      string `json:"comment_text"`
	Category  string `json:"provision_reference"`
}

// ErrMissingBody marks a record whose comment text is null.
var ErrMissingBody = errors.New("comment text is required")

// Validate checks if the record has a non-null body. Whitespace-only text is
// valid here; the scorer reports it per record.
func (r *CommentRecord) Validate() error {
	if IsNull(r.Body) {
		return ErrMissingBody
	}
	return nil
}

// nullMarkers are the cell values tabular tools write for a missing value.
var nullMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-NaN": {}, "-nan": {},
	"<NA>": {}, "<nil>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {},
	"None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNull reports whether a cell value denotes a missing value.
func IsNull(cell string) bool {
	_, ok := nullMarkers[cell]
	return ok
}
