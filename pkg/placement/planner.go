package placement

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/color"
	"github.com/matzehuels/adcanvas/pkg/raster"
)

// BandUpper is the headline band hint that softens the non-top penalty.
const BandUpper = "upper"

// Hints are the caller's layout preferences for one image.
type Hints struct {
	Format       ad.Format    `json:"format,omitempty"`
	Objective    ad.Objective `json:"objective,omitempty"`
	Align        ad.Align     `json:"align,omitempty"`
	HeadlineBand string       `json:"headline_band,omitempty"`
	AvoidCenter  bool         `json:"avoid_center,omitempty"`
	Accent       string       `json:"accent,omitempty"`
	Background   string       `json:"background,omitempty"`
}

// Normalize fills defaults for unset fields.
func (h Hints) Normalize() Hints {
	if h.Format == "" {
		h.Format = ad.FormatSquare
	}
	if h.Objective == "" {
		h.Objective = ad.ObjectiveAwareness
	}
	if h.Align == "" {
		h.Align = ad.AlignAuto
	}
	return h
}

// useLanes reports whether the caller pinned text to one side.
func (h Hints) useLanes() bool {
	return h.Align.Concrete() && h.AvoidCenter
}

// Score weights and penalties.
const (
	headlineClutterWeight = 1.7
	headlineBandPenalty   = 0.24
	headlineUpperPenalty  = 0.12
	alignConflictPenalty  = 0.3
	centerPenalty         = 0.4
	headlineLowContrast   = 0.25

	ctaClutterWeight = 1.6
	ctaBandPenalty   = 0.28
	ctaOfferBonus    = 0.06
	ctaCenterPenalty = 0.12
	ctaLowContrast   = 0.18
)

// Block sizing on the scored path.
const (
	headlineHeightRatio = 0.6
	subheadGap          = 0.02
	subheadMinY         = 0.16
	subheadMaxY         = 0.68
	subheadFloorY       = 0.72
	subheadMaxHeight    = 0.12
	subheadMinHeight    = 0.04
	ctaWidthRatio       = 0.6
	ctaMinWidth         = 0.24
	ctaMaxWidth         = 0.42
	ctaMaxHeight        = 0.1
)

// Confidence weights and bounds per path.
const (
	laneHeadlineWeight = 0.5
	laneSubheadWeight  = 0.2
	laneCTAWeight      = 0.3
	laneMinConfidence  = 0.4
	laneMaxConfidence  = 0.96

	scoredHeadlineWeight = 0.6
	scoredCTAWeight      = 0.4
	scoredMinConfidence  = 0.35
	scoredMaxConfidence  = 0.98
)

// Planner turns a pixel buffer and hints into a Plan. A Planner holds only
// immutable configuration and is safe for concurrent use.
type Planner struct {
	zones  []ZoneSpec
	lanes  LaneGeometry
	tuning Tuning
	logger *log.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithZones replaces the candidate catalog. The slice is copied.
func WithZones(zones []ZoneSpec) Option {
	return func(p *Planner) {
		if len(zones) > 0 {
			p.zones = append([]ZoneSpec(nil), zones...)
		}
	}
}

// WithLanes replaces the lane geometry.
func WithLanes(g LaneGeometry) Option {
	return func(p *Planner) { p.lanes = g }
}

// WithTuning replaces the heuristic constants.
func WithTuning(t Tuning) Option {
	return func(p *Planner) { p.tuning = t }
}

// WithLogger sets the logger for planning decisions (debug level).
func WithLogger(l *log.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPlanner creates a planner with the default catalog and tuning.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		zones:  DefaultZones(),
		lanes:  DefaultLanes(),
		tuning: DefaultTuning(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tuning returns the planner's heuristic constants.
func (p *Planner) Tuning() Tuning { return p.tuning }

// Zones returns a copy of the candidate catalog.
func (p *Planner) Zones() []ZoneSpec { return append([]ZoneSpec(nil), p.zones...) }

// MeasureAll measures every catalog zone in catalog order.
func (p *Planner) MeasureAll(buf *raster.PixelBuffer) []ZoneStats {
	stats := make([]ZoneStats, len(p.zones))
	for i, z := range p.zones {
		stats[i] = Measure(buf, z, p.tuning)
	}
	return stats
}

// Plan computes a layout for buf.
func (p *Planner) Plan(buf *raster.PixelBuffer, h Hints) Plan {
	h = h.Normalize()
	var plan Plan
	if h.useLanes() {
		plan = p.planLanes(buf, h)
	} else {
		plan = p.planScored(buf, h)
	}
	p.logger.Debug("placement plan",
		"source", plan.Source,
		"headline", plan.Headline.Zone,
		"cta", plan.CTA.Zone,
		"confidence", fmt.Sprintf("%.2f", plan.Confidence))
	return plan
}

func (p *Planner) planLanes(buf *raster.PixelBuffer, h Hints) Plan {
	lanes := p.lanes.Zones(h.Align)
	hs := Measure(buf, lanes[0], p.tuning)
	ss := Measure(buf, lanes[1], p.tuning)
	cs := Measure(buf, lanes[2], p.tuning)

	confidence := 1 - (laneHeadlineWeight*hs.Clutter + laneSubheadWeight*ss.Clutter + laneCTAWeight*cs.Clutter)
	return Plan{
		Headline:   p.block(hs, lanes[0].Rect, h.Align),
		Subhead:    p.block(ss, lanes[1].Rect, h.Align),
		CTA:        p.ctaBlock(cs, lanes[2].Rect, h),
		Confidence: clamp(confidence, laneMinConfidence, laneMaxConfidence),
		Source:     SourceLanes,
		Rationale: []string{
			fmt.Sprintf("pinned %s lanes (avoid center)", h.Align),
			describe("headline", hs),
			describe("subhead", ss),
			describe("cta", cs),
		},
	}
}

func (p *Planner) planScored(buf *raster.PixelBuffer, h Hints) Plan {
	all := p.MeasureAll(buf)

	var heads, ctas []ZoneStats
	for _, s := range all {
		if s.Zone.Band == BandBottom {
			ctas = append(ctas, s)
		} else {
			heads = append(heads, s)
		}
	}
	if len(heads) == 0 {
		heads = all
	}
	if len(ctas) == 0 {
		ctas = all
	}

	hs := pick(heads, func(s ZoneStats) float64 { return p.headlineScore(s, h) })
	cs := pick(ctas, func(s ZoneStats) float64 { return p.ctaScore(s, h) })

	head := hs.Zone.Rect
	head.H *= headlineHeightRatio
	head = head.Clamp()

	subY := clamp(head.Bottom()+subheadGap, subheadMinY, subheadMaxY)
	sub := Rect{
		X: head.X,
		Y: subY,
		W: head.W,
		H: max(subheadMinHeight, min(subheadMaxHeight, subheadFloorY-subY)),
	}.Clamp()
	ss := Measure(buf, ZoneSpec{Name: "subhead", Rect: sub, Band: BandMiddle, Align: hs.Zone.Align}, p.tuning)

	cta := ctaRect(cs.Zone)

	confidence := 1 - (scoredHeadlineWeight*hs.Clutter + scoredCTAWeight*cs.Clutter)
	subBlock := p.block(ss, sub, hs.Zone.Align)
	subBlock.Zone = hs.Zone.Name
	return Plan{
		Headline:   p.block(hs, head, hs.Zone.Align),
		Subhead:    subBlock,
		CTA:        p.ctaBlock(cs, cta, h),
		Confidence: clamp(confidence, scoredMinConfidence, scoredMaxConfidence),
		Source:     SourceAdaptive,
		Rationale: []string{
			describe("headline", hs),
			describe("cta", cs),
		},
	}
}

func (p *Planner) headlineScore(s ZoneStats, h Hints) float64 {
	score := s.Clutter * headlineClutterWeight
	if s.Zone.Band != BandTop {
		if h.HeadlineBand == BandUpper {
			score += headlineUpperPenalty
		} else {
			score += headlineBandPenalty
		}
	}
	if h.Align.Concrete() && s.Zone.Align != h.Align {
		score += alignConflictPenalty
	}
	if h.AvoidCenter && s.Zone.Align == ad.AlignCenter {
		score += centerPenalty
	}
	if s.Contrast < p.tuning.MinContrast {
		score += headlineLowContrast
	}
	return score
}

func (p *Planner) ctaScore(s ZoneStats, h Hints) float64 {
	score := s.Clutter * ctaClutterWeight
	if s.Zone.Band != BandBottom {
		score += ctaBandPenalty
	}
	if s.Zone.Align == ad.AlignCenter {
		switch {
		case h.Objective == ad.ObjectiveOffer:
			score -= ctaOfferBonus
		case h.AvoidCenter:
			score += ctaCenterPenalty
		}
	}
	if s.Contrast < p.tuning.MinContrast {
		score += ctaLowContrast
	}
	return score
}

// pick returns the lowest-scoring candidate; the first one wins ties.
func pick(cands []ZoneStats, score func(ZoneStats) float64) ZoneStats {
	best, bestScore := cands[0], score(cands[0])
	for _, c := range cands[1:] {
		if s := score(c); s < bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// ctaRect sizes the button inside its zone and re-centers it on the frame
// for center-aligned zones.
func ctaRect(z ZoneSpec) Rect {
	r := z.Rect
	w := clamp(r.W*ctaWidthRatio, ctaMinWidth, ctaMaxWidth)
	h := min(r.H, ctaMaxHeight)

	x := r.X
	switch z.Align {
	case ad.AlignCenter:
		x = 0.5 - w/2
	case ad.AlignRight:
		x = r.Right() - w
	}
	return Rect{X: x, Y: r.Y + (r.H-h)/2, W: w, H: h}.Clamp()
}

func (p *Planner) block(s ZoneStats, r Rect, align ad.Align) TextBlock {
	scrim := BuildScrim(s, p.tuning)
	return TextBlock{
		Rect:  r,
		Align: align,
		Color: TextColorOver(s, scrim),
		Scrim: scrim,
		Zone:  s.Zone.Name,
	}
}

func (p *Planner) ctaBlock(s ZoneStats, r Rect, h Hints) CTABlock {
	button := ctaButtonColor(h.Accent, s.TextColor)
	return CTABlock{
		TextBlock:       p.block(s, r, s.Zone.Align),
		ButtonStyle:     DefaultButtonStyle,
		ButtonColor:     button,
		ButtonTextColor: color.BestTextColor(color.Luminance(color.HexOr(button, fallback(s.TextColor)))),
		Radius:          DefaultCTARadius,
	}
}

// ctaButtonColor uses the accent hint when it parses and otherwise the
// zone's readable text color, which contrasts with the image behind it.
func ctaButtonColor(accent, zoneText string) string {
	if c, ok := color.ParseHex(accent); ok {
		return c.Hex()
	}
	return fallback(zoneText)
}

func fallback(hex string) string {
	if hex == "" {
		return color.DarkText
	}
	return hex
}

func describe(role string, s ZoneStats) string {
	return fmt.Sprintf("%s: %s clutter=%.2f lum=%.2f text=%s contrast=%.1f",
		role, s.Zone.Name, s.Clutter, s.Luminance, s.TextColor, s.Contrast)
}
