// Package main provides the entry point for the fragnav CLI.
//
// fragnav routes URI fragments such as "#Product/34/userId=7" to pages
// declared in a configuration file. It prints route tables, builds links,
// resolves fragments through the navigation chain and keeps the entities
// and navigation history those pages use.
//
// Usage:
//
//	fragnav routes
//	fragnav resolve 'Ticket/XYZ' 'Product/34/userId=7'
//
// See --help for all available options.
package main

// main is the entry point for fragnav.
func main() {
	Execute()
}
