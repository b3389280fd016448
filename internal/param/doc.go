// Package param binds URL parameters to page slots.
//
// A page declares its parameters as a list of Spec values, each one either
// positional (by 0-based index) or named, optionally required, and bound to
// a typed Accessor. Accessors are built with generic constructors over the
// page type, so binding needs no reflection:
//
//	specs := []param.Spec{
//		param.Positional(0, param.EntityRef("product", func(p *ProductPage) **model.Entity { return &p.Product })).Require(),
//		param.Named("userId", param.OptionalInt64(func(p *ProductPage) **int64 { return &p.UserID })),
//	}
//
// The Binder uses the specs in both directions: Inject parses a parameter
// part into a page instance, BuildParams renders values into a canonical
// parameter part.
package param
