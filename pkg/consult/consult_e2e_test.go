package consult

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/consult/pkg/consult/config"
	"github.com/cognicore/consult/pkg/consult/export"
	"github.com/cognicore/consult/pkg/consult/sentiment"
	"github.com/cognicore/consult/pkg/consult/store/sqlite"
)

// TestEndToEnd runs the sample consultation through the VADER model, the
// sqlite archive and the CSV export.
func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	cfg, err := config.Load("../../testdata/econsult/consult.yaml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	comp, err := (&config.Loader{Config: cfg}).Load()
	if err != nil {
		t.Fatalf("load components: %v", err)
	}

	st, err := sqlite.OpenSQLite(ctx, filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	engine, err := New(Options{Components: comp, Store: st})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer engine.Close()

	r, err := engine.AnalyzeFile(ctx, "../../testdata/econsult/comments.csv")
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}

	// === Ingest ===
	if r.Statistics.TotalComments != 9 || r.Statistics.DroppedRows != 1 {
		t.Errorf("statistics = %+v", r.Statistics)
	}
	if r.Statistics.ProvisionsDiscussed != 4 || r.Statistics.UniqueStakeholders != 9 {
		t.Errorf("statistics = %+v", r.Statistics)
	}

	// === Sentiment ===
	byID := make(map[string]sentiment.Detail)
	for _, d := range r.Detailed {
		byID[d.ID] = d
		if d.Substituted {
			t.Errorf("%s should be scored by the model", d.ID)
		}
		if d.Label != sentiment.Classify(d.Polarity) {
			t.Errorf("%s: label %s does not match polarity %v", d.ID, d.Label, d.Polarity)
		}
	}
	if byID["C001"].Label != sentiment.Positive || byID["C005"].Label != sentiment.Positive {
		t.Errorf("supportive comments should be Positive: %+v %+v", byID["C001"], byID["C005"])
	}
	if byID["C006"].Label != sentiment.Negative {
		t.Errorf("C006 should be Negative: %+v", byID["C006"])
	}
	sum := 0
	for _, n := range r.Summary {
		sum += n
	}
	if sum != 9 || r.Overall.Distribution.Total() != 9 {
		t.Errorf("summary %v does not cover every comment", r.Summary)
	}
	pct := r.Overall.PositivePct + r.Overall.NegativePct + r.Overall.NeutralPct
	if pct < 99.8 || pct > 100.2 {
		t.Errorf("percentages sum to %v", pct)
	}

	// === Aggregation ===
	total := 0
	for _, g := range r.ByProvision {
		if g.Labels.Total() != g.Count {
			t.Errorf("provision %s: labels %d != count %d", g.Key, g.Labels.Total(), g.Count)
		}
		total += g.Count
	}
	if total != 9 || r.ByProvision[0].Key != "Section 12" {
		t.Errorf("by provision = %+v", r.ByProvision)
	}
	types := make(map[string]int)
	for _, g := range r.StakeholderGroups {
		types[g.Key] = g.Count
	}
	if types["Legal"] != 2 || types["Business"] != 2 || types["Government"] != 1 || types["Association"] != 2 || types["Individual"] != 2 {
		t.Errorf("stakeholder groups = %v", types)
	}

	// === Summaries ===
	if !strings.Contains(r.Narrative, "• Section 12: 3 comments\n") {
		t.Errorf("narrative should rank Section 12 first:\n%s", r.Narrative)
	}
	if !strings.Contains(r.Narrative, "POSITIVE FEEDBACK:") || !strings.Contains(r.Narrative, "CONCERNS RAISED:") {
		t.Errorf("narrative sections missing:\n%s", r.Narrative)
	}
	if len(r.KeyThemes) != 10 || len(r.ProvisionSummaries) != 4 {
		t.Errorf("themes=%d provision summaries=%d", len(r.KeyThemes), len(r.ProvisionSummaries))
	}
	for _, theme := range r.KeyThemes {
		if theme == "however" {
			t.Error("configured stopword surfaced as a theme")
		}
	}

	// === Archive ===
	run, err := st.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(run.Details) != 9 || run.Narrative != r.Narrative {
		t.Errorf("archived run incomplete: %d details", len(run.Details))
	}

	// === Export ===
	var buf bytes.Buffer
	if err := export.WriteDetailsCSV(&buf, run.Details); err != nil {
		t.Fatalf("WriteDetailsCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 10 || rows[1][0] != "C001" {
		t.Errorf("csv rows = %d, first = %v", len(rows), rows[1])
	}
}
