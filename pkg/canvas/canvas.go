// Package canvas is the scene the compositor draws an ad into: an ordered
// list of image, rectangle and text elements on a fixed-size surface.
//
// Elements expose what they can do through small capability interfaces
// ([Positionable], [Scalable], [Renderable]) instead of optional methods.
// Text elements publish geometry changes to a single [GeometryObserver],
// which is how a [BackdropLink] keeps a scrim or button shape wrapped
// around live-edited text.
package canvas

import (
	"sync"

	"github.com/google/uuid"
)

// Role is what an element represents in the ad.
type Role string

const (
	RoleBackground Role = "background"
	RoleScrim      Role = "scrim"
	RoleHeadline   Role = "headline"
	RoleSubhead    Role = "subhead"
	RoleCTA        Role = "cta"
	RoleCTAChrome  Role = "cta-chrome"
)

// Bounds is a pixel rectangle.
type Bounds struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Bottom returns the bottom edge.
func (b Bounds) Bottom() float64 { return b.Y + b.H }

// Right returns the right edge.
func (b Bounds) Right() float64 { return b.X + b.W }

// Element is anything placed on the canvas.
type Element interface {
	ID() string
	Role() Role
	Bounds() Bounds
	Layer() Layer
}

// Positionable elements can be moved.
type Positionable interface {
	Position() (x, y float64)
	MoveTo(x, y float64)
}

// Scalable elements can be resized by a scale factor.
type Scalable interface {
	Scale() (sx, sy float64)
	ScaleTo(sx, sy float64)
}

// Canvas is a fixed-size, ordered scene. Element order is back to front.
type Canvas struct {
	width, height int

	mu       sync.Mutex
	elements []Element
	renders  int
	onRender func()
}

// New creates an empty canvas.
func New(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Add appends elements on top of the scene.
func (c *Canvas) Add(els ...Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements = append(c.elements, els...)
}

// Clear removes every element.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements = nil
}

// Elements returns the scene back to front.
func (c *Canvas) Elements() []Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Element(nil), c.elements...)
}

// Find returns the first element with role.
func (c *Canvas) Find(role Role) (Element, bool) {
	for _, el := range c.Elements() {
		if el.Role() == role {
			return el, true
		}
	}
	return nil, false
}

// Len returns the number of elements.
func (c *Canvas) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.elements)
}

// OnRender sets a hook called on every RequestRender.
func (c *Canvas) OnRender(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRender = fn
}

// RequestRender asks the host to redraw the scene.
func (c *Canvas) RequestRender() {
	c.mu.Lock()
	c.renders++
	fn := c.onRender
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// RenderCount returns how many renders were requested.
func (c *Canvas) RenderCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

func newID() string {
	return uuid.NewString()
}
