package placement

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/errors"
)

// Plan origins.
const (
	SourceAdaptive = "adaptive"
	SourceLanes    = "lanes"
	SourceStatic   = "static"
)

// Default CTA button style and corner radius (fraction of button height).
const (
	DefaultButtonStyle = "solid"
	DefaultCTARadius   = 0.5
)

// TextBlock is one positioned text region of a plan.
type TextBlock struct {
	Rect
	Align ad.Align `json:"align"`
	Color string   `json:"color"`
	Scrim Scrim    `json:"scrim"`
	Zone  string   `json:"zone,omitempty"`
}

// CTABlock is the call-to-action region with its button chrome.
type CTABlock struct {
	TextBlock
	ButtonStyle     string  `json:"button_style"`
	ButtonColor     string  `json:"button_color"`
	ButtonTextColor string  `json:"button_text_color"`
	Radius          float64 `json:"radius"`
}

// Plan is the resolved layout for one generated image.
type Plan struct {
	Headline   TextBlock `json:"headline"`
	Subhead    TextBlock `json:"subhead"`
	CTA        CTABlock  `json:"cta"`
	Confidence float64   `json:"confidence"`
	Rationale  []string  `json:"rationale,omitempty"`
	Source     string    `json:"source"`
}

// Validate checks that every block lies inside the frame with positive
// size and that no two blocks share a top edge.
func (p *Plan) Validate() error {
	blocks := []struct {
		name string
		r    Rect
	}{
		{"headline", p.Headline.Rect},
		{"subhead", p.Subhead.Rect},
		{"cta", p.CTA.Rect},
	}
	for _, b := range blocks {
		if !b.r.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "%s block %+v is outside the frame", b.name, b.r)
		}
	}
	for i := range blocks {
		for j := i + 1; j < len(blocks); j++ {
			if blocks[i].r.Y == blocks[j].r.Y {
				return errors.New(errors.ErrCodeInvalidInput, "%s and %s blocks share y=%.3f", blocks[i].name, blocks[j].name, blocks[i].r.Y)
			}
		}
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "confidence %.3f outside [0,1]", p.Confidence)
	}
	return nil
}

// Marshal encodes p for storage alongside a generation result.
func (p *Plan) Marshal() (json.RawMessage, error) {
	return json.Marshal(p)
}

// Unmarshal decodes a stored plan. Empty input and JSON null yield nil.
func Unmarshal(data []byte) (*Plan, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
