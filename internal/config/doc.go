// Package config provides configuration structures and utilities for fragnav.
// It defines navigator settings (separators, home page, layout), report output
// preferences, storage locations, and the configuration file through which
// pages and their parameter slots are declared without Go code.
package config
