package model

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// DynamicPage is a page whose parameter slots are held in a map instead of
// struct fields. Pages declared in the configuration file are DynamicPages.
type DynamicPage struct {
	id      string
	title   string
	warning string
	slots   map[string]any

	// links are fragments rendered as anchors, without "#".
	links []string

	// events received through ParamChanged, oldest first.
	events []NavigationEvent
}

// NewDynamicPage creates an empty DynamicPage.
// A non-empty warning makes the page a NavigationWarner.
func NewDynamicPage(id, title, warning string) *DynamicPage {
	return &DynamicPage{
		id:      id,
		title:   title,
		warning: warning,
		slots:   make(map[string]any),
	}
}

// ID returns the page identifier.
func (p *DynamicPage) ID() string {
	return p.id
}

// Title returns the page title, the identifier when no title was configured.
func (p *DynamicPage) Title() string {
	if p.title == "" {
		return p.id
	}
	return p.title
}

// SetSlot stores a slot value.
func (p *DynamicPage) SetSlot(key string, value any) {
	p.slots[key] = value
}

// Slot returns a slot value.
func (p *DynamicPage) Slot(key string) (any, bool) {
	v, ok := p.slots[key]
	return v, ok
}

// ResetSlot removes a slot value.
func (p *DynamicPage) ResetSlot(key string) {
	delete(p.slots, key)
}

// Slots returns a copy of every slot value.
func (p *DynamicPage) Slots() map[string]any {
	return maps.Clone(p.slots)
}

// SetWarning changes the navigation warning, simulating unsaved state.
func (p *DynamicPage) SetWarning(warning string) {
	p.warning = warning
}

// NavigationWarning returns the configured warning.
func (p *DynamicPage) NavigationWarning() string {
	return p.warning
}

// ParamChanged records the event.
func (p *DynamicPage) ParamChanged(_ context.Context, event NavigationEvent) {
	p.events = append(p.events, event)
}

// Events returns the parameter change events received so far.
func (p *DynamicPage) Events() []NavigationEvent {
	return slices.Clone(p.events)
}

// SetLinks sets the fragments the page links to.
func (p *DynamicPage) SetLinks(fragments ...string) {
	p.links = slices.Clone(fragments)
}

// Links returns the fragments the page links to.
func (p *DynamicPage) Links() []string {
	return slices.Clone(p.links)
}

// Render renders the title followed by the slot values sorted by key and
// an anchor per link.
func (p *DynamicPage) Render() string {
	var sb strings.Builder
	sb.WriteString(p.Title())

	for _, key := range slices.Sorted(maps.Keys(p.slots)) {
		fmt.Fprintf(&sb, "\n  %s: %s", key, formatSlot(p.slots[key]))
	}
	for _, link := range p.links {
		escaped := html.EscapeString(link)
		fmt.Fprintf(&sb, "\n  <a href=\"#%s\">%s</a>", escaped, escaped)
	}

	return sb.String()
}

// formatSlot renders a slot value, using the entity key for entities.
func formatSlot(v any) string {
	if e, ok := v.(*Entity); ok {
		var sb strings.Builder
		sb.WriteString(e.Type + "#" + e.Key)
		for _, name := range slices.Sorted(maps.Keys(e.Attributes)) {
			fmt.Fprintf(&sb, " %s=%s", name, e.Attributes[name])
		}
		return sb.String()
	}
	if k, ok := v.(EntityKeyer); ok {
		return k.EntityKey()
	}
	return fmt.Sprint(v)
}
