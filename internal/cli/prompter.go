package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter asks the user questions on the terminal.
type Prompter struct {
	reader *lineReader
	writer io.Writer
}

// NewPrompter creates a prompter reading from in and writing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: newLineReader(in),
		writer: out,
	}
}

// Confirm asks a yes/no question. Empty input picks defaultYes.
func (p *Prompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	hint := "[s/N]"
	if defaultYes {
		hint = "[S/n]"
	}
	fmt.Fprintf(p.writer, "%s %s ", FormatPrompt(question), SubtleStyle.Render(hint))

	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return defaultYes, nil
	case "s", "si", "sí", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Line asks for a free-form value. Empty input picks defaultValue.
func (p *Prompter) Line(ctx context.Context, label, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(p.writer, "%s %s ", FormatPrompt(label), SubtleStyle.Render("["+defaultValue+"]"))
	} else {
		fmt.Fprint(p.writer, FormatPrompt(label)+" ")
	}

	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}

// Amount asks for a positive amount, re-prompting on invalid input up to
// three times.
func (p *Prompter) Amount(ctx context.Context, label string) (float64, error) {
	for attempt := 0; attempt < 3; attempt++ {
		line, err := p.Line(ctx, label, "")
		if err != nil {
			return 0, err
		}

		// Accept a comma decimal separator.
		line = strings.ReplaceAll(line, ",", ".")
		value, err := strconv.ParseFloat(line, 64)
		if err == nil && value > 0 {
			return value, nil
		}
		fmt.Fprintln(p.writer, FormatWarning("Ingrese un monto mayor que cero"))
	}
	return 0, fmt.Errorf("no valid amount entered")
}
