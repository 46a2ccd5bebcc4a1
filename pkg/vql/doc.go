// Package vql parses VQL scripts: standard SQL statements mixed with the
// data source declaration
//
//	CREATE DATASOURCE <name> CONFIG ( (<name> = '<value>')* )
//
// Standard statements are handed to the generic parser in pkg/parser and kept
// opaque. Parse is pure: it performs no I/O and retains no state, so
// concurrent calls are independent.
package vql
