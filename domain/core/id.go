package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// reportNamespace scopes content-derived report identifiers
var reportNamespace = uuid.MustParse("6f1c2a9e-4b8d-5e3f-9a71-0c2d4e6f8a10")

// ID represents a domain identifier
type ID string

// NewContentID derives a stable identifier from a content hash.
// Identical content always yields the same ID.
func NewContentID(h Hash) ID {
	return ID(uuid.NewSHA1(reportNamespace, []byte(h)).String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// ReportID identifies a generated report
type ReportID ID

func (id ReportID) String() string { return ID(id).String() }

// ParseReportID parses a string into ReportID
func ParseReportID(s string) (ReportID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("report ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid report ID %q: %w", s, err)
	}
	return ReportID(s), nil
}
