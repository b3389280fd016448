package param

import "github.com/nao1215/fragnav/internal/model"

// Link collects the values of a link to a page before it is rendered.
//
//	link := param.NewLink("ProductPage", product).Add("userId", int64(123))
//	params, err := binder.LinkParams(link)
//
// Misuse detected while collecting values is kept and returned when the
// link is rendered.
type Link struct {
	pageID     string
	positional []any
	named      []NamedValue
	err        error
}

// NewLink starts a link to pageID with the given positional values.
func NewLink(pageID string, positional ...any) *Link {
	return &Link{
		pageID:     pageID,
		positional: positional,
	}
}

// Add appends a named value. Adding the same name twice is a configuration error.
func (l *Link) Add(name string, value any) *Link {
	if l.err != nil {
		return l
	}
	for _, nv := range l.named {
		if nv.Name == name {
			l.err = model.NewConfigurationError("build", l.pageID, "named value %q added twice", name)
			return l
		}
	}
	l.named = append(l.named, Arg(name, value))
	return l
}

// PageID returns the target page.
func (l *Link) PageID() string {
	return l.pageID
}

// Err returns the first misuse detected while collecting values.
func (l *Link) Err() error {
	return l.err
}
