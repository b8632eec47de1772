package ad

import (
	"encoding/json"
	"fmt"
	"os"
)

// Source points at a generated raster image. Exactly one field is expected
// to be set; URL wins over Data, Data wins over Path.
type Source struct {
	URL  string `json:"url,omitempty"`
	Data string `json:"data,omitempty"` // base64 or data: URI
	Path string `json:"path,omitempty"`
}

// IsZero reports whether no image location is set.
func (s Source) IsZero() bool {
	return s.URL == "" && s.Data == "" && s.Path == ""
}

// Result is one generation: the copy, the image and the layout decision
// attached to it. Plan is stored as raw JSON here so this package stays free
// of the planner; the pipeline decodes it.
type Result struct {
	ID          string          `json:"id"`
	Prompt      string          `json:"prompt,omitempty"`
	Format      Format          `json:"format"`
	TemplateID  string          `json:"template_id,omitempty"`
	Objective   Objective       `json:"objective,omitempty"`
	Copy        Copy            `json:"copy"`
	Colors      ColorHints      `json:"colors"`
	Layout      Layout          `json:"layout,omitzero"`
	Image       Source          `json:"image"`
	Variant     int             `json:"variant,omitempty"`
	TreatmentID string          `json:"treatment_id,omitempty"`
	Plan        json.RawMessage `json:"plan,omitempty"`
}

// ReadResultFile loads a generation result from a JSON file.
func ReadResultFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if r.Format == "" {
		r.Format = FormatSquare
	}
	return &r, nil
}

// WriteResultFile stores a generation result as indented JSON.
func WriteResultFile(r *Result, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
