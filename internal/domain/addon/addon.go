package addon

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
)

var (
	// errNoRootElement is returned when the descriptor contains no XML element at all.
	errNoRootElement = errors.New("descriptor has no root element")
	// errMissingID is returned when the root element lacks an id attribute.
	errMissingID = errors.New("descriptor is missing the id attribute")
	// errMissingVersion is returned when the root element lacks a version attribute.
	errMissingVersion = errors.New("descriptor is missing the version attribute")
)

// Addon is one discovered add-on descriptor.
type Addon struct {
	// ID is the unique identifier naming the add-on across all its versions.
	ID string
	// Version is the parsed version carried by the descriptor.
	Version Version
	// Descriptor is the raw descriptor document with any XML declaration
	// stripped, ready to be embedded into the aggregated index.
	Descriptor []byte
	// SourcePath is the archive the descriptor was read from.
	SourcePath string
}

// ParseDescriptor reads an addon.xml document and extracts its identity.
// The root element name is not constrained; it only has to carry non-empty
// id and version attributes. The returned Addon keeps the document bytes
// verbatim (minus the XML declaration) as its Descriptor.
func ParseDescriptor(data []byte, sourcePath string) (*Addon, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	root, err := firstStartElement(decoder)
	if err != nil {
		return nil, err
	}

	var id, version string

	for _, attr := range root.Attr {
		switch attr.Name.Local {
		case "id":
			id = attr.Value
		case "version":
			version = attr.Value
		}
	}

	if id == "" {
		return nil, errMissingID
	}

	if version == "" {
		return nil, errMissingVersion
	}

	return &Addon{
		ID:         id,
		Version:    ParseVersion(version),
		Descriptor: stripDeclaration(data),
		SourcePath: sourcePath,
	}, nil
}

// firstStartElement scans forward to the document's root element.
func firstStartElement(decoder *xml.Decoder) (*xml.StartElement, error) {
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil, errNoRootElement
		} else if err != nil {
			return nil, fmt.Errorf("decode descriptor: %w", err)
		}

		if start, ok := token.(xml.StartElement); ok {
			return &start, nil
		}
	}
}

// stripDeclaration removes a leading <?xml ...?> declaration and surrounding
// whitespace so the fragment can be nested under another root element.
func stripDeclaration(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)

	if bytes.HasPrefix(trimmed, []byte("<?xml")) {
		if end := bytes.Index(trimmed, []byte("?>")); end >= 0 {
			trimmed = bytes.TrimSpace(trimmed[end+len("?>"):])
		}
	}

	return trimmed
}

// Selection keeps the newest discovered Addon per identifier.
type Selection struct {
	// latest maps identifier to the best candidate seen so far.
	latest map[string]*Addon
}

// NewSelection returns an empty selection table.
func NewSelection() *Selection {
	return &Selection{
		latest: make(map[string]*Addon),
	}
}

// Add offers a candidate and reports whether it was kept. A candidate is kept
// when its identifier is new or its version compares strictly greater than
// the currently kept one; version ties keep the first candidate encountered.
func (s *Selection) Add(candidate *Addon) bool {
	best, ok := s.latest[candidate.ID]
	if ok && !candidate.Version.Newer(best.Version) {
		return false
	}

	s.latest[candidate.ID] = candidate

	return true
}

// Len returns the number of distinct identifiers kept.
func (s *Selection) Len() int {
	return len(s.latest)
}

// Sorted returns the kept add-ons in ascending identifier order.
func (s *Selection) Sorted() []*Addon {
	result := make([]*Addon, 0, len(s.latest))
	for _, entry := range s.latest {
		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}
