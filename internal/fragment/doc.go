// Package fragment implements the URI fragment mini-language used to address pages.
//
// A fragment has the shape
//
//	[!]pageName[/param/param/key=value]
//
// The leading "!" marks a crawlable page and is never part of the page name.
// A fragment that starts with the parameter separator ("/a/b") addresses the
// home page, the remainder being the home page's own parameters.
//
// The Codec only deals with strings. Typing, validation and binding of
// parameter values to page slots live in the param package.
package fragment
