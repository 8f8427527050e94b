// Package main provides a CLI for merging association include specs and
// checking grid definitions.
//
// The CLI supports:
//   - merge: Merge relation paths into an include spec
//   - paths: List the leaf paths of an include spec
//   - build: Build the include spec of a grid request
//   - validate: Check grid definitions and the catalog
//   - doctor: Run health checks, optionally against a database
//
// Commands that introspect a catalog (doctor) accept --db or the database
// section of joinery.yaml. All other commands only read files.
package main

func main() {
	Execute()
}
