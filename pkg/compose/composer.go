// Package compose turns a placement plan, a treatment and generated copy
// into canvas elements: a covering background, fitted text boxes and the
// scrims and CTA chrome linked to them.
package compose

import (
	"context"
	"image"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/canvas"
	"github.com/matzehuels/adcanvas/pkg/errors"
	"github.com/matzehuels/adcanvas/pkg/fonts"
	"github.com/matzehuels/adcanvas/pkg/placement"
	"github.com/matzehuels/adcanvas/pkg/treatment"
)

// State is the lifecycle of a composed ad.
type State int

const (
	StateEmpty State = iota
	StateComposing
	StateComposed
)

func (s State) String() string {
	switch s {
	case StateComposing:
		return "composing"
	case StateComposed:
		return "composed"
	default:
		return "empty"
	}
}

// Layout constants in canvas fractions.
const (
	// minGapRatio is the minimum vertical gap between text blocks as a
	// share of canvas height.
	minGapRatio = 0.012
	// maxScrimOpacity caps the plan opacity after treatment scaling.
	maxScrimOpacity = 0.85
	// ctaMinWidthRatio keeps short CTA labels on a usable button.
	ctaMinWidthRatio = 0.18
)

// Fit reports how one text block was sized.
type Fit struct {
	Size       float64 `json:"size"`
	ShrinkStep int     `json:"shrink_steps"`
	Trimmed    bool    `json:"trimmed"`
	Overflow   bool    `json:"overflow"`
}

// Composer owns one canvas and composes ads into it. Compose calls are
// serialized; the last one wins.
type Composer struct {
	canvas   *canvas.Canvas
	measurer fonts.Measurer
	selector *treatment.Selector
	logger   *log.Logger

	mu      sync.Mutex
	state   State
	plan    placement.Plan
	profile treatment.Profile
	format  ad.Format
	texts   map[canvas.Role]*canvas.TextElement
	links   map[canvas.Role]*canvas.BackdropLink
	fits    map[canvas.Role]Fit
}

// Option configures a Composer.
type Option func(*Composer)

// WithSelector sets the treatment selector.
func WithSelector(s *treatment.Selector) Option {
	return func(c *Composer) {
		if s != nil {
			c.selector = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewComposer creates a composer for cv. A nil measurer uses real font
// metrics from the default library.
func NewComposer(cv *canvas.Canvas, m fonts.Measurer, opts ...Option) *Composer {
	if m == nil {
		m = fonts.NewFaceMeasurer(nil)
	}
	c := &Composer{
		canvas:   cv,
		measurer: m,
		selector: treatment.NewSelector(nil),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

// Canvas returns the canvas the composer draws into.
func (c *Composer) Canvas() *canvas.Canvas { return c.canvas }

// State returns the current lifecycle state.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Plan returns the plan of the last successful composition.
func (c *Composer) Plan() placement.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan
}

// Treatment returns the treatment of the last successful composition.
func (c *Composer) Treatment() treatment.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// Fits returns how each text block was sized.
func (c *Composer) Fits() map[canvas.Role]Fit {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[canvas.Role]Fit, len(c.fits))
	for k, v := range c.fits {
		out[k] = v
	}
	return out
}

// Layers returns the canvas layer records back to front. It waits for a
// running Compose or Edit, so it must not be called from an OnRender hook.
func (c *Composer) Layers() []canvas.Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canvas == nil {
		return nil
	}
	return c.canvas.Layers()
}

// Text returns the text element for role.
func (c *Composer) Text(role canvas.Role) (*canvas.TextElement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.texts[role]
	return t, ok
}

func (c *Composer) reset() {
	c.texts = make(map[canvas.Role]*canvas.TextElement)
	c.links = make(map[canvas.Role]*canvas.BackdropLink)
	c.fits = make(map[canvas.Role]Fit)
}

// Compose clears the canvas and lays out r over img. When r carries no
// usable plan the template positions for its format are used. Any failure
// leaves an empty canvas in StateEmpty.
func (c *Composer) Compose(ctx context.Context, r ad.Result, img image.Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	c.state = StateComposing
	if c.canvas != nil {
		c.canvas.Clear()
	}
	c.reset()

	if err := c.compose(ctx, r, img); err != nil {
		if c.canvas != nil {
			c.canvas.Clear()
		}
		c.reset()
		c.state = StateEmpty
		c.logger.Warn("compose failed", "id", r.ID, "error", err)
		return err
	}

	c.state = StateComposed
	c.canvas.RequestRender()
	c.logger.Info("composed ad",
		"id", r.ID,
		"plan", c.plan.Source,
		"treatment", c.profile.ID,
		"layers", c.canvas.Len(),
		"duration", time.Since(start))
	return nil
}

func (c *Composer) compose(ctx context.Context, r ad.Result, img image.Image) error {
	if c.canvas == nil {
		return errors.New(errors.ErrCodeComposeFailed, "no canvas")
	}
	if r.Format == "" {
		r.Format = ad.FormatSquare
	}
	if !r.Format.Valid() {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", r.Format)
	}
	if err := errors.ValidateCopy(r.Copy.Headline, r.Copy.Subhead, r.Copy.CTA); err != nil {
		return err
	}

	plan, err := placement.Unmarshal(r.Plan)
	if err != nil {
		c.logger.Warn("ignoring stored plan", "id", r.ID, "error", err)
	}
	if plan == nil {
		p := placement.StaticPlan(r.Format, r.TemplateID, r.Colors)
		plan = &p
	}
	c.plan = *plan
	c.format = r.Format
	c.profile = c.selector.Select(treatment.Input{
		Copy:        r.Copy,
		Objective:   r.Objective,
		Variant:     r.Variant,
		TreatmentID: r.TreatmentID,
	})

	if img != nil {
		c.placeBackground(img, plan.Headline.Align)
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeComposeFailed, err, "compose cancelled")
	}

	if r.Copy.Headline != "" {
		c.placeText(canvas.RoleHeadline, plan.Headline, r.Copy.Headline, c.profile.Headline, c.profile.HeadlineScale)
	}
	if r.Copy.Subhead != "" {
		c.placeText(canvas.RoleSubhead, plan.Subhead, r.Copy.Subhead, c.profile.Subhead, 1)
	}
	if r.Copy.CTA != "" {
		c.placeCTA(plan.CTA, r.Copy.CTA)
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeComposeFailed, err, "compose cancelled")
	}

	c.enforceGaps()
	return nil
}

func (c *Composer) placeBackground(img image.Image, align ad.Align) {
	b := img.Bounds()
	p := PlaceBackground(float64(c.canvas.Width()), float64(c.canvas.Height()), float64(b.Dx()), float64(b.Dy()), align)
	el := canvas.NewImage(canvas.RoleBackground, img)
	el.ScaleTo(p.Scale, p.Scale)
	el.MoveTo(p.X, p.Y)
	c.canvas.Add(el)
}

// lane converts a fractional block to canvas pixels.
func (c *Composer) lane(r placement.Rect) canvas.Bounds {
	cw, ch := float64(c.canvas.Width()), float64(c.canvas.Height())
	return canvas.Bounds{X: r.X * cw, Y: r.Y * ch, W: r.W * cw, H: r.H * ch}
}

// fitText creates a text element sized to lane: estimate, auto-fit, trim,
// then shrink-wrap and align inside the lane.
func (c *Composer) fitText(role canvas.Role, lane canvas.Bounds, align ad.Align, text string, style treatment.TextStyle, scale float64) *canvas.TextElement {
	bounds := BoundsFor(c.format, role)
	if scale <= 0 {
		scale = 1
	}
	size := clamp(math.Round(FontSize(c.format, role, lane.H)*scale), bounds.Min, bounds.Max)
	text = style.Casing.Apply(text)

	t := canvas.NewText(c.measurer, role, text, fonts.Style{
		Font:       style.Font,
		Size:       size,
		LineHeight: style.LineHeight,
	}, EstimateWidth(role, text, size, lane.W))
	t.SetAlign(align)

	// An estimate that undershoots wraps text that fits the lane on one line.
	if maxW := lane.W * MetricsFor(role).MaxWidth; len(t.Layout().Lines) > 1 && t.Width() < maxW {
		if c.measurer.Advance(text, t.Style()) <= maxW {
			t.SetWidth(maxW)
		}
	}

	fit := Fit{}
	fit.ShrinkStep = AutoFit(t, lane.H, bounds.Min, MetricsFor(role).ShrinkStep)
	if t.Layout().Height > lane.H {
		fit.Trimmed = Trim(t, text, lane.H)
	}
	fit.Size = t.Style().Size
	fit.Overflow = t.Layout().Height > lane.H
	c.fits[role] = fit

	if w := t.Layout().Width; w > 0 && w < t.Width() {
		t.SetWidth(w)
	}
	t.MoveTo(AlignX(align, lane.X, lane.W, t.Width()), lane.Y)

	c.logger.Debug("fitted text",
		"role", role,
		"size", fit.Size,
		"steps", fit.ShrinkStep,
		"trimmed", fit.Trimmed,
		"overflow", fit.Overflow)
	return t
}

func (c *Composer) placeText(role canvas.Role, block placement.TextBlock, text string, style treatment.TextStyle, scale float64) {
	lane := c.lane(block.Rect)
	t := c.fitText(role, lane, block.Align, text, style, scale)
	t.SetColor(block.Color)

	if block.Scrim.Enabled {
		pad := block.Scrim.Padding * float64(min(c.canvas.Width(), c.canvas.Height()))
		rect := canvas.NewRect(canvas.RoleScrim, canvas.Bounds{}, block.Scrim.Color, c.scrimOpacity(block.Scrim))
		rect.Radius = pad / 2
		c.canvas.Add(rect)
		c.links[role] = canvas.Link(c.canvas, t, rect, pad, pad*0.6)
	}
	c.canvas.Add(t)
	c.texts[role] = t
}

func (c *Composer) placeCTA(block placement.CTABlock, text string) {
	lane := c.lane(block.Rect)
	t := c.fitText(canvas.RoleCTA, lane, block.Align, text, c.profile.CTA, 1)
	size := t.Style().Size
	padX, padY := size*0.9, size*0.45
	minW := ctaMinWidthRatio * float64(c.canvas.Width())

	var chrome *canvas.RectElement
	var opts []canvas.LinkOption
	switch c.profile.Chrome {
	case treatment.ChromePill:
		chrome = canvas.NewRect(canvas.RoleCTAChrome, canvas.Bounds{}, block.ButtonColor, 1)
		opts = append(opts, canvas.AsPill())
		t.SetColor(block.ButtonTextColor)
	case treatment.ChromeOutline:
		chrome = canvas.NewRect(canvas.RoleCTAChrome, canvas.Bounds{}, "", 0)
		chrome.Stroke = block.ButtonColor
		chrome.StrokeWidth = max(2, size*0.08)
		chrome.Radius = size * 0.25
		t.SetColor(block.Color)
	case treatment.ChromeGhost:
		chrome = canvas.NewRect(canvas.RoleCTAChrome, canvas.Bounds{}, block.ButtonColor, 0.22)
		chrome.Radius = size * 0.25
		t.SetColor(block.Color)
	default: // label: plain text, scrim only when the plan asks for one
		t.SetColor(block.Color)
		if block.Scrim.Enabled {
			chrome = canvas.NewRect(canvas.RoleScrim, canvas.Bounds{}, block.Scrim.Color, c.scrimOpacity(block.Scrim))
			padX, padY = size*0.5, size*0.3
			minW = 0
		}
	}

	if chrome != nil {
		c.canvas.Add(chrome)
		c.links[canvas.RoleCTA] = canvas.Link(c.canvas, t, chrome, padX, padY, append(opts, canvas.WithMinWidth(minW))...)
	}
	c.canvas.Add(t)
	c.texts[canvas.RoleCTA] = t
}

func (c *Composer) scrimOpacity(s placement.Scrim) float64 {
	strength := c.profile.ScrimStrength
	if strength <= 0 {
		strength = 1
	}
	return clamp(s.Opacity*strength, 0, maxScrimOpacity)
}

// enforceGaps pushes text blocks down so consecutive blocks, ordered by
// top edge, keep a minimum vertical gap. Blocks pushed past the bottom edge
// are pulled back up, moving the blocks above them along.
func (c *Composer) enforceGaps() {
	ch := float64(c.canvas.Height())
	gap := minGapRatio * ch
	texts := make([]*canvas.TextElement, 0, len(c.texts))
	for _, role := range []canvas.Role{canvas.RoleHeadline, canvas.RoleSubhead, canvas.RoleCTA} {
		if t, ok := c.texts[role]; ok {
			texts = append(texts, t)
		}
	}
	sort.SliceStable(texts, func(i, j int) bool {
		return texts[i].Bounds().Y < texts[j].Bounds().Y
	})
	for i := 1; i < len(texts); i++ {
		prev, cur := texts[i-1].Bounds(), texts[i].Bounds()
		if minY := prev.Bottom() + gap; cur.Y < minY {
			x, _ := texts[i].Position()
			texts[i].MoveTo(x, minY)
		}
	}

	limit := ch
	for i := len(texts) - 1; i >= 0; i-- {
		b := texts[i].Bounds()
		if b.Bottom() > limit {
			x, _ := texts[i].Position()
			texts[i].MoveTo(x, max(0, limit-b.H))
		}
		limit = texts[i].Bounds().Y - gap
	}
}

// Edit applies a user edit to the text element of role. Linked backdrops
// follow the change.
func (c *Composer) Edit(role canvas.Role, fn func(*canvas.TextElement)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateComposed {
		return errors.New(errors.ErrCodeComposeFailed, "nothing composed")
	}
	t, ok := c.texts[role]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no %s element", role)
	}
	fn(t)
	return nil
}
