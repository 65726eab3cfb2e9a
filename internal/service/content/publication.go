package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pagetree/internal/domain"
	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	svc "pagetree/internal/domain/services/content"
	"pagetree/internal/schema"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// publicationService clears publication state on documents
type publicationService struct {
	registry *schema.Registry
	records  repo.RecordRepository
	logger   *slog.Logger
}

// NewPublicationService creates a new publication service
func NewPublicationService(
	registry *schema.Registry,
	records repo.RecordRepository,
	logger *slog.Logger,
) svc.PublicationService {
	return &publicationService{
		registry: registry,
		records:  records,
		logger:   logger,
	}
}

// Unpublish clears publishedAt on every stored version of a document
func (s *publicationService) Unpublish(ctx context.Context, kind, documentID string) (result *models.UnpublishResult, err error) {
	start := time.Now()
	defer func() { observe("unpublish", start, err) }()

	if err := validation.Validate(documentID, validation.Required, validation.Length(1, 64), is.PrintableASCII); err != nil {
		return nil, fmt.Errorf("%w: documentId: %v", domain.ErrValidation, err)
	}

	ct, err := lookupContentType(s.registry, kind)
	if err != nil {
		return nil, err
	}
	if !ct.DraftAndPublish {
		return nil, fmt.Errorf("%w: %s does not use draft and publish", domain.ErrValidation, ct.UID)
	}

	if _, err := s.records.FindOne(ctx, ct, repo.Query{Fields: []string{}}.Where(models.FieldDocumentID, repo.OpEqual, documentID)); err != nil {
		return nil, fmt.Errorf("%s document %q: %w", ct.Kind, documentID, err)
	}

	entries, err := s.records.Unpublish(ctx, ct, documentID)
	if err != nil {
		s.logger.Error("failed to unpublish",
			"content_type", ct.UID,
			"document_id", documentID,
			"error", err,
		)
		return nil, fmt.Errorf("unpublish %s %q: %w", ct.Kind, documentID, err)
	}

	s.logger.Info("document unpublished",
		"content_type", ct.UID,
		"document_id", documentID,
		"entries", entries,
	)

	return &models.UnpublishResult{DocumentID: documentID, Entries: entries}, nil
}
