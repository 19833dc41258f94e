package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/finweave/finweave/internal/model"
)

func detectionResult() *model.DetectionResult {
	return &model.DetectionResult{
		Structure: model.DataStructure{
			Type:     model.LayoutSingleCategory,
			Language: model.LanguageGerman,
		},
		SuggestedMappings: []model.ColumnMapping{
			{OriginalHeader: "Datum", StandardField: model.FieldDate, Confidence: 0.85, Detected: true},
			{OriginalHeader: "Betrag", StandardField: model.FieldAmount, Confidence: 1.0, Detected: true},
		},
	}
}

func TestConfirmMappings_Accept(t *testing.T) {
	var out bytes.Buffer
	prompter := NewMappingPrompter(strings.NewReader("y\n"), &out)

	mappings, err := prompter.ConfirmMappings(context.Background(), detectionResult())
	if err != nil {
		t.Fatalf("ConfirmMappings() error = %v", err)
	}
	if len(mappings) != 2 {
		t.Errorf("mappings = %d, want 2", len(mappings))
	}
	if !strings.Contains(out.String(), "Datum") {
		t.Error("prompt output does not show the suggested mappings")
	}
}

func TestConfirmMappings_Remap(t *testing.T) {
	var out bytes.Buffer
	prompter := NewMappingPrompter(strings.NewReader("Valuta date\ny\n"), &out)

	result := detectionResult()
	mappings, err := prompter.ConfirmMappings(context.Background(), result)
	if err != nil {
		t.Fatalf("ConfirmMappings() error = %v", err)
	}
	if len(mappings) != 3 {
		t.Fatalf("mappings = %d, want 3 after remap of a new header", len(mappings))
	}

	added := mappings[2]
	if added.OriginalHeader != "Valuta" || added.StandardField != model.FieldDate {
		t.Errorf("added mapping = %+v, want Valuta → date", added)
	}
	if added.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0 for a user decision", added.Confidence)
	}

	// The caller's result is untouched; the prompter works on a copy.
	if len(result.SuggestedMappings) != 2 {
		t.Error("suggested mappings mutated")
	}
}

func TestConfirmMappings_Abort(t *testing.T) {
	var out bytes.Buffer
	prompter := NewMappingPrompter(strings.NewReader("q\n"), &out)

	if _, err := prompter.ConfirmMappings(context.Background(), detectionResult()); err == nil {
		t.Fatal("ConfirmMappings() expected abort error")
	}
}

func TestReadLine_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never delivers a line.
	reader := NewNonBlockingReader(blockedReader{})
	if _, err := reader.ReadLine(ctx); !errors.Is(err, ErrInputCancelled) {
		t.Errorf("error = %v, want ErrInputCancelled", err)
	}
}

type blockedReader struct{}

func (blockedReader) Read([]byte) (int, error) {
	select {} // blocks forever; the goroutine leaks per call, acceptable in tests
}
