package quote

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// TextRenderer renders a plain text quote.
type TextRenderer struct{}

func (TextRenderer) Key() string         { return "txt" }
func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }
func (TextRenderer) Extension() string   { return "txt" }

func (TextRenderer) Render(q Quote) ([]byte, error) {
	var buf bytes.Buffer
	b := q.Package

	fmt.Fprintf(&buf, "PACKAGE QUOTE %s\n", q.Reference)
	fmt.Fprintf(&buf, "Generated %s\n\n", q.GeneratedAt.Format("2 Jan 2006 15:04 UTC"))

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Destination\t%s\n", q.Country)
	fmt.Fprintf(tw, "Package\t%s (%s)\n", b.ID, b.Kind)
	fmt.Fprintf(tw, "Dates\t%s\n", b.Window)
	fmt.Fprintf(tw, "Nights\t%d\n", b.Nights)
	fmt.Fprintf(tw, "Guests\t%d\n", q.Guests)
	fmt.Fprintln(tw)
	for _, l := range q.Lines() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Label, l.Detail, Money(l.Amount))
	}
	fmt.Fprintf(tw, "TOTAL\t\t%s\n", Money(b.Total))
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("render text quote: %w", err)
	}

	buf.WriteString("\nThis is not a booking confirmation. Prices are subject to availability.\n")
	return buf.Bytes(), nil
}
