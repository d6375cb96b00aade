// Package index persists the aggregated add-on index to disk.
//
// A Save produces two sibling files in the output directory: addons.xml with
// the fixed UTF-8 declaration and an <addons> root wrapping the selected
// descriptor fragments, and addons.xml.md5 holding the hex MD5 digest of the
// exact index bytes.
package index
