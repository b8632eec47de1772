// Package treatment picks the visual treatment (font pairing, casing, scrim
// strength and CTA chrome) applied to one ad's text.
//
// Selection is a pure function of the copy, objective and variant index, so
// re-rendering a saved ad always yields the same treatment while different
// copy spreads across the catalog.
package treatment

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/fonts"
)

// Chrome is the CTA button style.
type Chrome string

const (
	ChromePill    Chrome = "pill"
	ChromeOutline Chrome = "outline"
	ChromeGhost   Chrome = "ghost"
	ChromeLabel   Chrome = "label"
)

// Casing is a text transform applied before layout.
type Casing string

const (
	CaseNone  Casing = "none"
	CaseUpper Casing = "upper"
	CaseLower Casing = "lower"
	CaseTitle Casing = "title"
)

// Apply transforms s.
func (c Casing) Apply(s string) string {
	switch c {
	case CaseUpper:
		return cases.Upper(language.English).String(s)
	case CaseLower:
		return cases.Lower(language.English).String(s)
	case CaseTitle:
		return cases.Title(language.English, cases.NoLower).String(s)
	default:
		return s
	}
}

// TextStyle is the treatment of one text role.
type TextStyle struct {
	Font       string  `json:"font"`
	Casing     Casing  `json:"casing"`
	LineHeight float64 `json:"line_height"`
}

// Profile is a named treatment.
type Profile struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Headline TextStyle `json:"headline"`
	Subhead  TextStyle `json:"subhead"`
	CTA      TextStyle `json:"cta"`

	// ScrimStrength scales the plan's scrim opacity.
	ScrimStrength float64 `json:"scrim_strength"`
	Chrome        Chrome  `json:"chrome"`
	// HeadlineScale scales the headline font size before fitting.
	HeadlineScale float64 `json:"headline_scale"`
}

// Catalog is an ordered, read-only list of profiles.
type Catalog []Profile

// Lookup finds a profile by id.
func (c Catalog) Lookup(id string) (Profile, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// IDs returns the profile ids in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c))
	for i, p := range c {
		ids[i] = p.ID
	}
	return ids
}

// DefaultCatalog returns the built-in treatments.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:            "clean-sans",
			Name:          "Clean Sans",
			Headline:      TextStyle{Font: fonts.Bold, Casing: CaseNone, LineHeight: 1.08},
			Subhead:       TextStyle{Font: fonts.Regular, Casing: CaseNone, LineHeight: 1.2},
			CTA:           TextStyle{Font: fonts.Medium, Casing: CaseUpper, LineHeight: 1.1},
			ScrimStrength: 1,
			Chrome:        ChromePill,
			HeadlineScale: 1,
		},
		{
			ID:            "editorial",
			Name:          "Editorial",
			Headline:      TextStyle{Font: fonts.Medium, Casing: CaseTitle, LineHeight: 1.1},
			Subhead:       TextStyle{Font: fonts.Italic, Casing: CaseNone, LineHeight: 1.25},
			CTA:           TextStyle{Font: fonts.Regular, Casing: CaseUpper, LineHeight: 1.1},
			ScrimStrength: 0.85,
			Chrome:        ChromeLabel,
			HeadlineScale: 0.95,
		},
		{
			ID:            "loud",
			Name:          "Loud",
			Headline:      TextStyle{Font: fonts.Bold, Casing: CaseUpper, LineHeight: 1.02},
			Subhead:       TextStyle{Font: fonts.Medium, Casing: CaseNone, LineHeight: 1.15},
			CTA:           TextStyle{Font: fonts.Bold, Casing: CaseUpper, LineHeight: 1.05},
			ScrimStrength: 1.15,
			Chrome:        ChromePill,
			HeadlineScale: 1.05,
		},
		{
			ID:            "mono-tech",
			Name:          "Mono Tech",
			Headline:      TextStyle{Font: fonts.MonoBold, Casing: CaseNone, LineHeight: 1.1},
			Subhead:       TextStyle{Font: fonts.Mono, Casing: CaseNone, LineHeight: 1.2},
			CTA:           TextStyle{Font: fonts.MonoBold, Casing: CaseUpper, LineHeight: 1.1},
			ScrimStrength: 1,
			Chrome:        ChromeOutline,
			HeadlineScale: 0.9,
		},
		{
			ID:            "smallcaps-luxe",
			Name:          "Small Caps Luxe",
			Headline:      TextStyle{Font: fonts.SmallCaps, Casing: CaseNone, LineHeight: 1.12},
			Subhead:       TextStyle{Font: fonts.Regular, Casing: CaseNone, LineHeight: 1.25},
			CTA:           TextStyle{Font: fonts.SmallCaps, Casing: CaseNone, LineHeight: 1.1},
			ScrimStrength: 0.8,
			Chrome:        ChromeGhost,
			HeadlineScale: 0.92,
		},
	}
}

// DefaultObjectiveSubsets restricts objectives to on-brand treatments.
// Objectives without an entry use the whole catalog.
func DefaultObjectiveSubsets() map[ad.Objective][]string {
	return map[ad.Objective][]string{
		ad.ObjectiveOffer: {"clean-sans", "loud", "mono-tech"},
	}
}

// Input is what a treatment is selected from.
type Input struct {
	Copy        ad.Copy
	Objective   ad.Objective
	Variant     int
	TreatmentID string // explicit choice; skips hashing when it names a profile
}

// Selector picks profiles from a catalog.
type Selector struct {
	catalog Catalog
	subsets map[ad.Objective][]string
}

// NewSelector creates a selector over catalog with the default objective
// subsets. An empty catalog uses DefaultCatalog.
func NewSelector(catalog Catalog) *Selector {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	return &Selector{catalog: catalog, subsets: DefaultObjectiveSubsets()}
}

// WithSubsets replaces the objective subsets.
func (s *Selector) WithSubsets(subsets map[ad.Objective][]string) *Selector {
	s.subsets = subsets
	return s
}

// Catalog returns the selector's catalog.
func (s *Selector) Catalog() Catalog { return s.catalog }

// Select returns the treatment for in. Identical inputs always yield the
// same profile.
func (s *Selector) Select(in Input) Profile {
	if in.TreatmentID != "" {
		if p, ok := s.catalog.Lookup(in.TreatmentID); ok {
			return p
		}
	}

	pool := s.pool(in.Objective)
	key := strings.Join([]string{
		in.Copy.Headline,
		in.Copy.Subhead,
		in.Copy.CTA,
		string(in.Objective),
		strconv.Itoa(in.Variant),
	}, "|")
	return pool[Hash(key)%uint32(len(pool))]
}

func (s *Selector) pool(obj ad.Objective) Catalog {
	ids, ok := s.subsets[obj]
	if !ok {
		return s.catalog
	}
	var pool Catalog
	for _, id := range ids {
		if p, ok := s.catalog.Lookup(id); ok {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return s.catalog
	}
	return pool
}

// Hash is the 31-multiplier string hash over UTF-16 code units with
// unsigned 32-bit wraparound.
func Hash(s string) uint32 {
	var h uint32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + uint32(u)
	}
	return h
}
