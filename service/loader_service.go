package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"murloader/citation"
	"murloader/models"
	"murloader/search"
	"murloader/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	murIndex   = "docs"
	murDocType = "murs"
)

// CaseSource is the narrow query surface the loader needs from the
// relational store.
type CaseSource interface {
	ListCases(ctx context.Context) ([]models.CaseRef, error)
	ListSubjects(ctx context.Context, caseID int64) ([]models.SubjectRow, error)
	ListParticipants(ctx context.Context, caseID int64) ([]models.ParticipantRow, error)
	ListViolations(ctx context.Context, caseID int64) ([]models.ViolationRow, error)
	ListDocuments(ctx context.Context, caseID int64) ([]models.DocumentRow, error)
}

// LoaderService drives the MUR indexing pipeline: enumerate cases, aggregate
// each one into a denormalized record, archive its document binaries, and
// submit the record to the search index.
type LoaderService struct {
	source     CaseSource
	storage    storage.Storage
	indexer    search.Indexer
	reclassify citation.Reclassifier
	parser     *citation.Parser
	log        *zap.Logger
	workers    int
}

// LoaderServiceOption is a functional option for LoaderService
type LoaderServiceOption func(*LoaderService)

// WithCaseSource sets the case query source
func WithCaseSource(source CaseSource) LoaderServiceOption {
	return func(s *LoaderService) {
		s.source = source
	}
}

// WithStorage sets the object store documents are archived to
func WithStorage(store storage.Storage) LoaderServiceOption {
	return func(s *LoaderService) {
		s.storage = store
	}
}

// WithIndexer sets the search index client
func WithIndexer(indexer search.Indexer) LoaderServiceOption {
	return func(s *LoaderService) {
		s.indexer = indexer
	}
}

// WithReclassifier sets the statutory citation reclassifier
func WithReclassifier(reclassify citation.Reclassifier) LoaderServiceOption {
	return func(s *LoaderService) {
		s.reclassify = reclassify
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) LoaderServiceOption {
	return func(s *LoaderService) {
		s.log = log
	}
}

// WithWorkers bounds how many cases are processed concurrently. Cases share
// no mutable state, so anything above 1 only changes throughput.
func WithWorkers(workers int) LoaderServiceOption {
	return func(s *LoaderService) {
		s.workers = workers
	}
}

// NewLoaderService creates a new loader service
func NewLoaderService(opts ...LoaderServiceOption) *LoaderService {
	s := &LoaderService{workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.workers < 1 {
		s.workers = 1
	}
	s.parser = citation.NewParser(s.reclassify, s.log)
	return s
}

// Run enumerates all current MURs and indexes each one. A failure inside one
// case is logged and that case skipped; the run itself only fails when the
// enumeration fails or the context is cancelled.
func (s *LoaderService) Run(ctx context.Context) error {
	cases, err := s.source.ListCases(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate cases: %w", err)
	}
	s.log.Info("loading current MURs", zap.Int("cases", len(cases)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, ref := range cases {
		ref := ref
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log := s.log.With(
				zap.Int64("case_id", ref.CaseID),
				zap.String("case_no", ref.CaseNo),
			)
			if err := s.loadCase(ctx, ref, log); err != nil {
				log.Error("failed to load case", zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}

// loadCase builds and indexes the denormalized record for one case. The
// index submission comes last: every document upload has either completed or
// been reported failed by then.
func (s *LoaderService) loadCase(ctx context.Context, ref models.CaseRef, log *zap.Logger) error {
	subject, err := s.loadSubjects(ctx, ref.CaseID)
	if err != nil {
		return err
	}

	participants, err := s.loadParticipants(ctx, ref.CaseID)
	if err != nil {
		return err
	}
	if err := s.assignCitations(ctx, participants, ref.CaseID, log); err != nil {
		return err
	}

	text, documents, err := s.assembleDocuments(ctx, ref.CaseID, log)
	if err != nil {
		return err
	}

	mur := &models.MUR{
		DocID:        "mur_" + ref.CaseNo,
		No:           ref.CaseNo,
		Name:         ref.Name,
		MURType:      models.MURTypeCurrent,
		Subject:      models.Subject{Text: subject},
		Participants: participantList(participants),
		Text:         text,
		Documents:    documents,
	}

	if err := s.indexer.Index(ctx, murIndex, murDocType, mur.DocID, mur); err != nil {
		return fmt.Errorf("failed to index %s: %w", mur.DocID, err)
	}
	log.Info("indexed case", zap.String("doc_id", mur.DocID))
	return nil
}

// loadSubjects flattens the subject rows for one case into a single summary
// string. A related subject attaches to its subject with a hyphen. Query
// order, no deduplication.
func (s *LoaderService) loadSubjects(ctx context.Context, caseID int64) (string, error) {
	rows, err := s.source.ListSubjects(ctx, caseID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch subjects: %w", err)
	}

	subjects := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Related != nil && *row.Related != "" {
			subjects = append(subjects, row.Subject+"-"+*row.Related)
		} else {
			subjects = append(subjects, row.Subject)
		}
	}
	return strings.Join(subjects, " "), nil
}

// loadParticipants returns the case's participants keyed by entity id, each
// with an empty citation map.
func (s *LoaderService) loadParticipants(ctx context.Context, caseID int64) (map[int64]*models.Participant, error) {
	rows, err := s.source.ListParticipants(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}

	participants := make(map[int64]*models.Participant, len(rows))
	for _, row := range rows {
		participants[row.EntityID] = &models.Participant{
			EntityID:  row.EntityID,
			Name:      row.Name,
			Role:      row.Role,
			Citations: make(map[string][]string),
		}
	}
	return participants, nil
}

// assignCitations attaches parsed citation URLs to each participant, grouped
// by the stage of the violation row they came from. Statutory URLs precede
// regulatory URLs per row, rows in query order. Violations naming an entity
// that is not a participant are dropped with a warning, never fatal.
func (s *LoaderService) assignCitations(ctx context.Context, participants map[int64]*models.Participant, caseID int64, log *zap.Logger) error {
	rows, err := s.source.ListViolations(ctx, caseID)
	if err != nil {
		return fmt.Errorf("failed to fetch violations: %w", err)
	}

	for _, row := range rows {
		participant, ok := participants[row.EntityID]
		if !ok {
			log.Warn("violation entity not found in participants",
				zap.Int64("entity_id", row.EntityID))
			continue
		}
		ref := citation.Ref{CaseID: caseID, EntityID: row.EntityID}
		urls := s.parser.Statutory(deref(row.StatutoryCitation), ref)
		urls = append(urls, s.parser.Regulatory(deref(row.RegulatoryCitation), ref)...)
		participant.Citations[row.Stage] = append(participant.Citations[row.Stage], urls...)
	}
	return nil
}

// assembleDocuments builds the ordered document list and concatenated text
// for one case, archiving each binary as it goes. An upload failure demotes
// that document to URL-less but does not abort the case.
func (s *LoaderService) assembleDocuments(ctx context.Context, caseID int64, log *zap.Logger) (string, []models.Document, error) {
	rows, err := s.source.ListDocuments(ctx, caseID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	SortDocumentRows(rows)

	var text strings.Builder
	documents := make([]models.Document, 0, len(rows))
	for _, row := range rows {
		document := models.Document{
			DocumentID:   row.DocumentID,
			Category:     row.Category,
			Description:  row.Description,
			Length:       row.Length,
			DocumentDate: row.DocumentDate,
		}

		// Single-space join: adjacent documents' final and first words must
		// not fuse in the indexed text.
		text.WriteString(row.OCRText)
		text.WriteByte(' ')

		key := fmt.Sprintf("legal/murs/current/%d.pdf", row.DocumentID)
		log.Info("uploading document", zap.String("key", key))
		if err := s.storage.PutObject(ctx, key, row.FileImage, "application/pdf", "public-read"); err != nil {
			log.Warn("failed to archive document", zap.String("key", key), zap.Error(err))
		} else {
			document.URL = s.storage.PublicURL(key)
		}
		documents = append(documents, document)
	}
	return text.String(), documents, nil
}

// SortDocumentRows orders rows by curation order, then document date
// descending, then document id descending. The explicit chain keeps output
// stable when order ids or dates collide.
func SortDocumentRows(rows []models.DocumentRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].DocOrderID != rows[j].DocOrderID {
			return rows[i].DocOrderID < rows[j].DocOrderID
		}
		di, dj := docTime(rows[i].DocumentDate), docTime(rows[j].DocumentDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return rows[i].DocumentID > rows[j].DocumentID
	})
}

func docTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// participantList flattens the participant map in entity-id order so that
// repeated runs over unchanged data produce byte-identical records.
func participantList(participants map[int64]*models.Participant) []*models.Participant {
	ids := make([]int64, 0, len(participants))
	for id := range participants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	list := make([]*models.Participant, 0, len(ids))
	for _, id := range ids {
		list = append(list, participants[id])
	}
	return list
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
