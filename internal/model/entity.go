package model

import "time"

// Entity is a persisted object that URL parameters can reference by key,
// as in "product/34".
type Entity struct {
	// Type is the type tag used for lookups ("product").
	Type string `json:"type"`

	// Key is the value that appears in the fragment.
	Key string `json:"key"`

	// Attributes hold the entity data.
	Attributes map[string]string `json:"attributes,omitempty"`

	// UpdatedAt is when the entity was last stored.
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityKey returns the key rendered into fragments.
func (e *Entity) EntityKey() string {
	return e.Key
}

// Attribute returns the named attribute, "" when absent.
func (e *Entity) Attribute(name string) string {
	return e.Attributes[name]
}
