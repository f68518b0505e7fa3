package models

import "time"

// MURTypeCurrent tags every record this pipeline produces; only
// current-generation matters flow through it.
const MURTypeCurrent = "current"

// Subject wraps the flattened subject summary for a case.
type Subject struct {
	Text string `json:"text"`
}

// Participant represents one named entity in a case, with resolved citation
// URLs grouped by the case stage they were alleged under.
type Participant struct {
	EntityID  int64               `json:"entity_id"`
	Name      string              `json:"name"`
	Role      string              `json:"role"`
	Citations map[string][]string `json:"citations"`
}

// Document represents one archived case document. URL is empty when archival
// failed; the binary itself lives in the object store, never here.
type Document struct {
	DocumentID   int64      `json:"document_id"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	Length       int64      `json:"length"`
	DocumentDate *time.Time `json:"document_date"`
	URL          string     `json:"url,omitempty"`
}

// MUR is the denormalized record submitted to the search index. It is built
// fresh each run and never mutated after indexing; the index is the system
// of record for the output.
type MUR struct {
	DocID        string         `json:"doc_id"`
	No           string         `json:"no"`
	Name         string         `json:"name"`
	MURType      string         `json:"mur_type"`
	Subject      Subject        `json:"subject"`
	Participants []*Participant `json:"participants"`
	Text         string         `json:"text"`
	Documents    []Document     `json:"documents"`
}
