package stoplist

import (
	"testing"
)

func TestSetBasic(t *testing.T) {
	s := New("test", []string{"the", "A", " and "})

	if !s.IsStop("the") {
		t.Error("'the' should be a stopword")
	}
	if !s.IsStop("THE") {
		t.Error("lookup should be case-insensitive")
	}
	if !s.IsStop("a") || !s.IsStop("and") {
		t.Error("terms should be lowercased and trimmed")
	}
	if s.IsStop("hello") {
		t.Error("'hello' should not be a stopword")
	}
	if s.Len() != 3 {
		t.Errorf("Expected 3 stopwords, got %d", s.Len())
	}
}

func TestSetWithLeavesReceiverUntouched(t *testing.T) {
	base := New("base", []string{"the"})
	ext := base.With("cost")

	if !ext.IsStop("cost") || !ext.IsStop("the") {
		t.Error("extended set should contain both terms")
	}
	if base.IsStop("cost") {
		t.Error("base set must not change")
	}
	if ext.Name() != "base" {
		t.Errorf("Name = %q, want base", ext.Name())
	}
}

func TestSetAllSorted(t *testing.T) {
	s := New("x", []string{"c", "a", "b", ""})
	all := s.All()
	want := []string{"a", "b", "c"}
	if len(all) != len(want) {
		t.Fatalf("All() = %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, all[i], want[i])
		}
	}
}

func TestBuiltinSets(t *testing.T) {
	tests := []struct {
		set  Set
		size int
	}{
		{Summary, 25},
		{Analysis, 40},
		{Cloud, 55},
	}
	for _, tt := range tests {
		if tt.set.Len() != tt.size {
			t.Errorf("%s: expected %d stopwords, got %d", tt.set.Name(), tt.size, tt.set.Len())
		}
	}

	if Summary.IsStop("should") {
		t.Error("summary set should not include modals")
	}
	if !Analysis.IsStop("should") {
		t.Error("analysis set should include modals")
	}
	if !Cloud.IsStop("their") || Analysis.IsStop("their") {
		t.Error("only the cloud set should include pronouns")
	}
}
