// Package addon holds the domain model of the repository generator: the
// descriptor record extracted from packaged archives, the version ordering
// used to rank releases, and the selection table that keeps the newest
// release per add-on identifier.
package addon
