package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cognicore/consult/pkg/consult/internalerr"
	"github.com/cognicore/consult/pkg/consult/sentiment"
	"github.com/cognicore/consult/pkg/consult/store"
	"github.com/cognicore/consult/pkg/consult/store/memstore"
)

func seeded(t *testing.T) store.Store {
	t.Helper()
	st := memstore.New()
	run := store.Run{
		RunSummary: store.RunSummary{
			ID:           "01J00000000000000000000001",
			CreatedAt:    time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
			Source:       "comments.csv",
			Total:        1,
			Overall:      sentiment.Positive,
			MeanPolarity: 0.5,
		},
		Report:  json.RawMessage(`{"id":"01J00000000000000000000001"}`),
		Details: []sentiment.Detail{{ID: "c1", Submitter: "Jane", Text: "Good", Category: "S1", Label: sentiment.Positive, Polarity: 0.5}},
	}
	if err := st.SaveRun(context.Background(), run); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestRunList(t *testing.T) {
	var buf bytes.Buffer
	if err := run(context.Background(), seeded(t), &buf, []string{"list"}, 10); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "01J00000000000000000000001", "2026-02-03 04:05:06", "Positive", "0.500", "comments.csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestRunShowAndDetails(t *testing.T) {
	ctx := context.Background()
	st := seeded(t)

	var buf bytes.Buffer
	if err := run(ctx, st, &buf, []string{"show", "01J00000000000000000000001"}, 0); err != nil {
		t.Fatalf("show: %v", err)
	}
	if strings.TrimSpace(buf.String()) != `{"id":"01J00000000000000000000001"}` {
		t.Errorf("show output: %s", buf.String())
	}

	buf.Reset()
	if err := run(ctx, st, &buf, []string{"details", "01J00000000000000000000001"}, 0); err != nil {
		t.Fatalf("details: %v", err)
	}
	if !strings.Contains(buf.String(), "c1,Jane,Good,S1,Positive,0.5,0") {
		t.Errorf("details output: %s", buf.String())
	}
}

func TestRunDelete(t *testing.T) {
	ctx := context.Background()
	st := seeded(t)

	var buf bytes.Buffer
	if err := run(ctx, st, &buf, []string{"delete", "01J00000000000000000000001"}, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err := run(ctx, st, &buf, []string{"show", "01J00000000000000000000001"}, 0)
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunUsageErrors(t *testing.T) {
	ctx := context.Background()
	st := seeded(t)
	var buf bytes.Buffer

	for _, args := range [][]string{nil, {"show"}, {"purge", "x"}, {"delete", "a", "b"}} {
		if err := run(ctx, st, &buf, args, 0); !errors.Is(err, errUsage) {
			t.Errorf("run(%v) = %v, want usage error", args, err)
		}
	}
}
