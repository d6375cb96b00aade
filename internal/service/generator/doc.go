// Package generator aggregates add-on metadata from packaged archives.
//
// It scans a folder tree for zip archives, reads each embedded addon.xml
// descriptor, keeps the highest version per add-on identifier, and writes the
// aggregated addons.xml plus its MD5 checksum through the index repository.
// Broken archives are warned about and skipped; a run yielding no usable
// archives fails without writing anything.
package generator
