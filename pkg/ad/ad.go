// Package ad defines the data model shared by the placement engine, the
// compositor and the outer surfaces: aspect formats, campaign objectives,
// alignment, generated copy, color hints and the generation result that a
// placement plan is persisted with.
package ad

import (
	"fmt"
	"strings"
)

// Format is an aspect-ratio preset for a generated ad.
type Format string

// Supported formats.
const (
	FormatSquare   Format = "square"
	FormatPortrait Format = "portrait"
	FormatStory    Format = "story"
)

// Size is a pixel dimension.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var formatSizes = map[Format]Size{
	FormatSquare:   {1080, 1080},
	FormatPortrait: {1080, 1350},
	FormatStory:    {1080, 1920},
}

// Formats lists the supported formats in declaration order.
func Formats() []Format {
	return []Format{FormatSquare, FormatPortrait, FormatStory}
}

// Size returns the pixel dimensions of the format. Unknown formats fall
// back to square.
func (f Format) Size() Size {
	if s, ok := formatSizes[f]; ok {
		return s
	}
	return formatSizes[FormatSquare]
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	_, ok := formatSizes[f]
	return ok
}

// ParseFormat parses a format id. The empty string yields square.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatSquare, nil
	}
	if !f.Valid() {
		return "", fmt.Errorf("invalid format %q (must be one of: square, portrait, story)", s)
	}
	return f, nil
}

// Objective is the campaign goal the copy collaborator optimized for.
type Objective string

// Supported objectives.
const (
	ObjectiveOffer     Objective = "offer"
	ObjectiveLaunch    Objective = "launch"
	ObjectiveAwareness Objective = "awareness"
)

// ParseObjective parses an objective. The empty string yields awareness.
func ParseObjective(s string) (Objective, error) {
	switch o := Objective(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return ObjectiveAwareness, nil
	case ObjectiveOffer, ObjectiveLaunch, ObjectiveAwareness:
		return o, nil
	default:
		return "", fmt.Errorf("invalid objective %q (must be one of: offer, launch, awareness)", s)
	}
}

// Align is a horizontal alignment.
type Align string

// Alignments. AlignAuto is only meaningful as a hint.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
	AlignAuto   Align = "auto"
)

// ParseAlign parses an alignment. The empty string yields auto.
func ParseAlign(s string) (Align, error) {
	switch a := Align(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AlignAuto, nil
	case AlignLeft, AlignCenter, AlignRight, AlignAuto:
		return a, nil
	default:
		return "", fmt.Errorf("invalid alignment %q (must be one of: left, center, right, auto)", s)
	}
}

// Concrete reports whether a is an explicit side rather than auto.
func (a Align) Concrete() bool {
	return a == AlignLeft || a == AlignCenter || a == AlignRight
}

// Copy is the generated ad text. Character budgets (headline 34, subhead 62,
// cta 16) are enforced upstream by the copy collaborator.
type Copy struct {
	Headline string `json:"headline"`
	Subhead  string `json:"subhead"`
	CTA      string `json:"cta"`
}

// Character budgets enforced by the copy collaborator.
const (
	MaxHeadlineChars = 34
	MaxSubheadChars  = 62
	MaxCTAChars      = 16
)

// Layout holds the copy collaborator's placement preferences. An explicit
// alignment together with AvoidCenter pins all text to that side.
type Layout struct {
	Align        Align  `json:"align,omitempty"`
	HeadlineBand string `json:"headline_band,omitempty"` // "top" or "upper"
	AvoidCenter  bool   `json:"avoid_center,omitempty"`
}

// ColorHints are brand color suggestions as hex strings.
type ColorHints struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Text       string `json:"text,omitempty"`
	Background string `json:"background,omitempty"`
}
