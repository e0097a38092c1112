package quote

import (
	"encoding/json"
	"fmt"
)

// JSONRenderer renders the quote with its line items as JSON.
type JSONRenderer struct{}

func (JSONRenderer) Key() string         { return "json" }
func (JSONRenderer) ContentType() string { return "application/json" }
func (JSONRenderer) Extension() string   { return "json" }

func (JSONRenderer) Render(q Quote) ([]byte, error) {
	doc := struct {
		Quote
		Lines []LineItem `json:"lines"`
		Total float64    `json:"total"`
	}{
		Quote: q,
		Lines: q.Lines(),
		Total: q.Package.Total,
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json quote: %w", err)
	}
	return out, nil
}
