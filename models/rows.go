package models

import "time"

// CaseRef identifies one case from the enumeration query.
type CaseRef struct {
	CaseID int64
	CaseNo string
	Name   string
}

// SubjectRow is one (subject, related subject) description pair.
type SubjectRow struct {
	Subject string
	Related *string
}

// ParticipantRow is one entity/name/role row for a case.
type ParticipantRow struct {
	EntityID int64
	Name     string
	Role     string
}

// ViolationRow links an entity to a case stage and the raw citation text for
// that stage. Rows are consumed directly into participant citation lists and
// not retained.
type ViolationRow struct {
	EntityID           int64
	Stage              string
	StatutoryCitation  *string
	RegulatoryCitation *string
}

// DocumentRow carries one document's metadata, extracted text, and binary
// image as fetched from the source store.
type DocumentRow struct {
	DocumentID   int64
	Category     string
	Description  string
	OCRText      string
	FileImage    []byte
	Length       int64
	DocOrderID   int64
	DocumentDate *time.Time
}
