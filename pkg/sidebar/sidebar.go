// Package sidebar implements the editor's two-panel complementary-area
// policy. It is pure glue: the hosting UI owns the area state behind the
// AreaHost interface, and the controller only decides when to force one of the
// two editor-managed panels.
package sidebar

import "sync"

// Editor-managed complementary area identifiers.
const (
	PanelBlock    = "edit-post/block"
	PanelDocument = "edit-post/document"
)

// AreaHost is the hosting framework's complementary-area surface.
type AreaHost interface {
	ActiveArea() string
	SetActiveArea(area string)
}

// EditorManaged reports whether the area is one of the two panels this
// package owns.
func EditorManaged(area string) bool {
	return area == PanelBlock || area == PanelDocument
}

// Controller reacts to block-selection changes by activating the matching
// editor panel. Synchronous policy, no goroutines.
type Controller struct {
	host AreaHost

	mu       sync.Mutex
	selected bool
}

// NewController constructs a controller bound to host.
func NewController(host AreaHost) *Controller {
	return &Controller{host: host}
}

// ActivePanel returns the host's active complementary area.
func (c *Controller) ActivePanel() string {
	if c == nil || c.host == nil {
		return ""
	}
	return c.host.ActiveArea()
}

// SetBlockSelected records whether any block is selected in the editing
// surface. On a transition, when the active panel is not editor-managed, the
// block panel is forced if a selection exists, the document panel otherwise.
// Editor-managed panels already reflect the user's explicit choice and are
// left alone.
func (c *Controller) SetBlockSelected(selected bool) {
	if c == nil || c.host == nil {
		return
	}
	c.mu.Lock()
	changed := c.selected != selected
	c.selected = selected
	c.mu.Unlock()
	if !changed {
		return
	}
	if EditorManaged(c.host.ActiveArea()) {
		return
	}
	if selected {
		c.host.SetActiveArea(PanelBlock)
		return
	}
	c.host.SetActiveArea(PanelDocument)
}

// BlockSelected returns the last recorded selection-presence flag.
func (c *Controller) BlockSelected() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}
