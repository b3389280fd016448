package registry

import (
	"strings"

	"golang.org/x/text/cases"
)

// PageSuffix is stripped from type names to derive default URI names.
const PageSuffix = "Page"

// DefaultURIName derives the URI name of a page from its type name.
// Package qualifiers and pointer markers are dropped, then a trailing
// case-sensitive "Page" suffix is removed, unless nothing would remain.
//
//	"shop.ProductPage" -> "Product"
//	"*TicketPage"      -> "Ticket"
//	"Page"             -> "Page"
func DefaultURIName(typeName string) string {
	name := strings.TrimLeft(typeName, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if trimmed := strings.TrimSuffix(name, PageSuffix); trimmed != "" {
		return trimmed
	}
	return name
}

// foldName returns the case-insensitive lookup key of a URI name.
// A Caser keeps state, so a fresh one is used per call.
func foldName(name string) string {
	return cases.Fold().String(name)
}
