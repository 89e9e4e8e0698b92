package ballots

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"traitvote/internal/consensus"
)

func TestReadSourceCSV(t *testing.T) {
	input := "\ufeffTrait, Umbrella\n" +
		"age >= 18,demographics\n" +
		" pregnant ,reproductive\n" +
		",ignored\n" +
		"age >= 18,demographics\n" +
		"renal function,\n"
	got, err := ReadSourceCSV(strings.NewReader(input), "trait", "umbrella")
	if err != nil {
		t.Fatalf("ReadSourceCSV: %v", err)
	}
	want := map[string]string{
		"age >= 18":      "demographics",
		"pregnant":       "reproductive",
		"renal function": "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("votes mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSourceCSVErrors(t *testing.T) {
	cases := map[string]struct {
		input string
		want  error
	}{
		"missing label column": {"trait,category\nx,y\n", ErrMissingColumn},
		"missing item column":  {"name,umbrella\nx,y\n", ErrMissingColumn},
		"conflict":             {"trait,umbrella\nx,a\nx,b\n", ErrConflictingVote},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadSourceCSV(strings.NewReader(tc.input), "trait", "umbrella")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := ReadSourceCSV(strings.NewReader(""), "trait", "umbrella"); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestReadWideCSV(t *testing.T) {
	input := "umbrella,Claude,GPT5,gemini\n" +
		"demographics,inclusion,inclusion,\n" +
		"lab values,exclusion,inclusion,inclusion\n"
	got, err := ReadWideCSV(strings.NewReader(input), consensus.PhaseCategory.ItemColumn())
	if err != nil {
		t.Fatalf("ReadWideCSV: %v", err)
	}
	want := consensus.SourceLabels{
		"claude": {"demographics": "inclusion", "lab values": "exclusion"},
		"gpt5":   {"demographics": "inclusion", "lab values": "inclusion"},
		"gemini": {"lab values": "inclusion"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestReadWideCSVDuplicateSource(t *testing.T) {
	input := "trait,claude,Claude\nx,a,b\n"
	if _, err := ReadWideCSV(strings.NewReader(input), "trait"); err == nil {
		t.Fatal("expected error for duplicate source columns")
	}
}

func TestReadItemsCSV(t *testing.T) {
	got, err := ReadItemsCSV(strings.NewReader("raw_trait,notes\nAge >= 18,x\n  Pregnant ,\n"))
	if err != nil {
		t.Fatalf("ReadItemsCSV: %v", err)
	}
	if diff := cmp.Diff([]string{"Age >= 18", "  Pregnant "}, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}
