// Package config defines the folder settings used by the repository generator
// and provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the archive folder scanned for zips and the output
// folder receiving the generated index files.
package config
