package model

import (
	"time"

	"github.com/nao1215/fragnav/internal/fragment"
)

// NavigationEvent describes a placed page.
type NavigationEvent struct {
	// WindowID identifies the window the page was placed in.
	WindowID string

	// PageID identifies the placed page.
	PageID string

	// Params are the parameters the page was placed with.
	Params fragment.Params

	// PageChanged is false when only the parameters of the current page changed.
	PageChanged bool
}

// NavigationRecord is a persisted navigation.
// Raw parameters are never stored, only their digest and token count.
type NavigationRecord struct {
	// ID is the storage identifier, zero before the record is stored.
	ID int64 `json:"id"`

	// WindowID identifies the window.
	WindowID string `json:"window_id"`

	// PageID identifies the placed page.
	PageID string `json:"page_id"`

	// ParamsDigest is the hex encoded SHA3-256 digest of the raw parameters.
	ParamsDigest string `json:"params_digest"`

	// ParamCount is the number of parameter tokens.
	ParamCount int `json:"param_count"`

	// PageChanged is false for in-place parameter updates.
	PageChanged bool `json:"page_changed"`

	// PlacedAt is when the page was placed.
	PlacedAt time.Time `json:"placed_at"`
}
