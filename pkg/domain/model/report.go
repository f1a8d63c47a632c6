package model

import (
	"github.com/weevil-bot/weevil/pkg/domain/types"
)

// ReferenceLinks holds the URLs extracted from a message, split into the two
// pattern classes. Direct links are usable as ticket evidence as-is, indirect
// links need the author to produce a shareable version first. A URL belongs
// to at most one class.
type ReferenceLinks struct {
	Direct   []string
	Indirect []string
}

// HasDirect reports whether at least one direct link was found
func (l ReferenceLinks) HasDirect() bool {
	return len(l.Direct) > 0
}

// HasIndirect reports whether at least one indirect link was found
func (l ReferenceLinks) HasIndirect() bool {
	return len(l.Indirect) > 0
}

// FirstDirect returns the first direct link, or empty string
func (l ReferenceLinks) FirstDirect() string {
	if len(l.Direct) == 0 {
		return ""
	}
	return l.Direct[0]
}

// FirstIndirect returns the first indirect link, or empty string
func (l ReferenceLinks) FirstIndirect() string {
	if len(l.Indirect) == 0 {
		return ""
	}
	return l.Indirect[0]
}

// ParsedReport is the structured form of a free-text defect report.
// Title is never empty after classification.
type ParsedReport struct {
	ID          types.ReportID
	Title       string
	Description string
	Environment types.Environment
	Product     types.Product
	Links       ReferenceLinks
	SourceText  string
}
