package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/finweave/finweave/internal/model"
)

// MappingPrompter surfaces a detection result for human confirmation.
// Detection with NeedsUserConfirmation set must pass through here before
// normalization; the gate is the caller's to enforce.
type MappingPrompter struct {
	reader *NonBlockingReader
	out    io.Writer
}

// NewMappingPrompter creates a prompter over the given streams.
func NewMappingPrompter(in io.Reader, out io.Writer) *MappingPrompter {
	return &MappingPrompter{
		reader: NewNonBlockingReader(in),
		out:    out,
	}
}

// ConfirmMappings shows the suggested mappings and asks the user to accept
// them or remap a column. It returns the confirmed mappings, or an error if
// the user aborts.
func (p *MappingPrompter) ConfirmMappings(ctx context.Context, result *model.DetectionResult) ([]model.ColumnMapping, error) {
	mappings := append([]model.ColumnMapping(nil), result.SuggestedMappings...)

	fmt.Fprintln(p.out, FormatTitle("Column mapping needs confirmation"))
	p.printStructure(result.Structure)

	for {
		p.printMappings(mappings)
		fmt.Fprintln(p.out, FormatPrompt(`Accept [y], remap "<header> <field>", or abort [q]`))

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(line) {
		case "y", "yes", "":
			return mappings, nil
		case "q", "quit", "n":
			return nil, fmt.Errorf("mapping confirmation aborted")
		default:
			parts := strings.Fields(line)
			if len(parts) != 2 {
				fmt.Fprintln(p.out, FormatWarning("expected: <header> <field>"))
				continue
			}
			mappings = remap(mappings, parts[0], model.StandardField(parts[1]))
		}
	}
}

func (p *MappingPrompter) printStructure(s model.DataStructure) {
	fmt.Fprintln(p.out, SubtleStyle.Render(fmt.Sprintf(
		"layout=%s language=%s dateFormat=%s currency=%s",
		s.Type, s.Language, s.DateFormat, s.CurrencySymbol)))
}

func (p *MappingPrompter) printMappings(mappings []model.ColumnMapping) {
	fmt.Fprintln(p.out, TableHeaderStyle.Render("header → field (confidence)"))
	for _, m := range mappings {
		line := fmt.Sprintf("%s → %s (%.2f)", m.OriginalHeader, m.StandardField, m.Confidence)
		if m.Confidence < 0.8 {
			fmt.Fprintln(p.out, WarningStyle.Render(line))
		} else {
			fmt.Fprintln(p.out, line)
		}
	}
}

// remap reassigns a header to a field, replacing an existing mapping for
// that header or adding one. Confidence becomes 1.0: the user said so.
func remap(mappings []model.ColumnMapping, header string, field model.StandardField) []model.ColumnMapping {
	for i := range mappings {
		if mappings[i].OriginalHeader == header {
			mappings[i].StandardField = field
			mappings[i].Confidence = 1.0
			mappings[i].Detected = false
			return mappings
		}
	}
	return append(mappings, model.ColumnMapping{
		OriginalHeader: header,
		StandardField:  field,
		Confidence:     1.0,
	})
}
