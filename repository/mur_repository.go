package repository

import (
	"context"
	"fmt"

	"murloader/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MURRepository handles database operations against the fecmur source schema
type MURRepository struct {
	db *pgxpool.Pool
}

// NewMURRepository creates a new MUR repository
func NewMURRepository(db *pgxpool.Pool) *MURRepository {
	return &MURRepository{db: db}
}

// ListCases returns every case of type MUR
func (r *MURRepository) ListCases(ctx context.Context) ([]models.CaseRef, error) {
	query := `
		SELECT case_id, case_no, name
		FROM fecmur.case
		WHERE case_type = 'MUR'`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var cases []models.CaseRef
	for rows.Next() {
		var ref models.CaseRef
		var name *string
		if err := rows.Scan(&ref.CaseID, &ref.CaseNo, &name); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		ref.Name = deref(name)
		cases = append(cases, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cases: %w", err)
	}

	return cases, nil
}

// ListSubjects returns the (subject, related subject) description pairs for
// one case, in query order
func (r *MURRepository) ListSubjects(ctx context.Context, caseID int64) ([]models.SubjectRow, error) {
	query := `
		SELECT subject.description AS subj, relatedsubject.description AS rel
		FROM fecmur.case_subject
		JOIN fecmur.subject USING (subject_id)
		LEFT OUTER JOIN fecmur.relatedsubject USING (subject_id, relatedsubject_id)
		WHERE case_id = $1`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.SubjectRow
	for rows.Next() {
		var row models.SubjectRow
		var subj *string
		if err := rows.Scan(&subj, &row.Related); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		row.Subject = deref(subj)
		subjects = append(subjects, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}

	return subjects, nil
}

// ListParticipants returns the entity/name/role rows for one case
func (r *MURRepository) ListParticipants(ctx context.Context, caseID int64) ([]models.ParticipantRow, error) {
	query := `
		SELECT entity_id, name, role.description AS role
		FROM fecmur.players
		JOIN fecmur.role USING (role_id)
		JOIN fecmur.entity USING (entity_id)
		WHERE case_id = $1`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []models.ParticipantRow
	for rows.Next() {
		var row models.ParticipantRow
		var name, role *string
		if err := rows.Scan(&row.EntityID, &name, &role); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		row.Name = deref(name)
		row.Role = deref(role)
		participants = append(participants, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}

// ListViolations returns the violation rows for one case
func (r *MURRepository) ListViolations(ctx context.Context, caseID int64) ([]models.ViolationRow, error) {
	query := `
		SELECT entity_id, stage, statutory_citation, regulatory_citation
		FROM fecmur.violations
		WHERE case_id = $1`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query violations: %w", err)
	}
	defer rows.Close()

	var violations []models.ViolationRow
	for rows.Next() {
		var row models.ViolationRow
		var stage *string
		if err := rows.Scan(&row.EntityID, &stage, &row.StatutoryCitation, &row.RegulatoryCitation); err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		row.Stage = deref(stage)
		violations = append(violations, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating violations: %w", err)
	}

	return violations, nil
}

// ListDocuments returns the document rows for one case, including the binary
// file image and extracted text
func (r *MURRepository) ListDocuments(ctx context.Context, caseID int64) ([]models.DocumentRow, error) {
	query := `
		SELECT document_id, category, description, ocrtext,
			fileimage, length(fileimage) AS length,
			doc_order_id, document_date
		FROM fecmur.document
		WHERE case_id = $1
		ORDER BY doc_order_id, document_date DESC, document_id DESC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var documents []models.DocumentRow
	for rows.Next() {
		var row models.DocumentRow
		var category, description, ocrText *string
		var length, orderID *int64
		if err := rows.Scan(
			&row.DocumentID,
			&category,
			&description,
			&ocrText,
			&row.FileImage,
			&length,
			&orderID,
			&row.DocumentDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		row.Category = deref(category)
		row.Description = deref(description)
		row.OCRText = deref(ocrText)
		if length != nil {
			row.Length = *length
		}
		if orderID != nil {
			row.DocOrderID = *orderID
		}
		documents = append(documents, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return documents, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
