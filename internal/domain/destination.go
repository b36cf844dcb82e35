package domain

import "slices"

// DestinationRow is an unstructured destination as it arrives from the
// fallback file, the database or a parsed LLM line.
type DestinationRow struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

// Destination is a candidate after enrichment.
type Destination struct {
	Name        string
	Description string
	Reason      string
	Climate     Climate
	Tags        []Interest
	Cost        int
}

func (d Destination) HasTag(i Interest) bool {
	return slices.Contains(d.Tags, i)
}

// Clone returns a copy that shares no slices with d.
func (d Destination) Clone() Destination {
	d.Tags = slices.Clone(d.Tags)
	return d
}
