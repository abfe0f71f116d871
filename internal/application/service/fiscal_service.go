package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
	"github.com/tecnano/factura-api/internal/domain/repository"
	"github.com/tecnano/factura-api/internal/fiscal"
	"github.com/tecnano/factura-api/pkg/apperror"
)

// DocumentComposer serializes a sale into its canonical fiscal document.
type DocumentComposer interface {
	Compose(sale *entity.Sale) ([]byte, error)
}

// AuthorityClient submits a composed document to the fiscal authority.
// It never returns an error: every failure arrives as a result with
// ERROR status.
type AuthorityClient interface {
	Submit(ctx context.Context, sale *entity.Sale, document, artifact []byte) fiscal.SubmissionResult
}

// ArtifactRenderer produces the human-presentable document for a sale.
// Rendering failures must not abort fiscal submission.
type ArtifactRenderer interface {
	Render(sale *entity.Sale) ([]byte, error)
}

// FiscalService drives the authorization state machine:
// PENDING -> AUTHORIZED | REJECTED | ERROR, re-enterable via Retry from
// any non-authorized status.
type FiscalService struct {
	saleRepo repository.SaleRepository
	composer DocumentComposer
	client   AuthorityClient
	renderer ArtifactRenderer
}

// NewFiscalService creates a new fiscal service
func NewFiscalService(
	saleRepo repository.SaleRepository,
	composer DocumentComposer,
	client AuthorityClient,
	renderer ArtifactRenderer,
) *FiscalService {
	return &FiscalService{
		saleRepo: saleRepo,
		composer: composer,
		client:   client,
		renderer: renderer,
	}
}

// Submit runs one authorization attempt for the sale and persists the
// outcome. The sale always ends the attempt with a terminal status:
// unexpected local failures are captured into ERROR, never propagated.
// The returned error reports only outcome-persistence problems (e.g. a
// concurrent submission won the version check).
func (s *FiscalService) Submit(ctx context.Context, sale *entity.Sale) error {
	result, localArtifact := s.attempt(ctx, sale)
	s.apply(sale, result, localArtifact)

	log.Printf("[fiscal] sale %s processed, status=%s", sale.ID, sale.FiscalStatus)
	return s.saleRepo.UpdateFiscalOutcome(ctx, sale)
}

// Retry re-enters the state machine for a sale whose previous attempt
// did not authorize. Retrying an authorized sale is refused: a second
// authorized document for the same sale is worse than a rejected click.
func (s *FiscalService) Retry(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if !sale.FiscalStatus.Retryable() {
		return nil, apperror.NewInvalidStateError(
			fmt.Sprintf("Sale %s is already authorized; retry is not allowed", sale.ID))
	}

	if err := s.Submit(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Worklist returns the sales awaiting authorization or stuck on a
// failed attempt, for manual retry.
func (s *FiscalService) Worklist(ctx context.Context) ([]entity.Sale, error) {
	return s.saleRepo.ListByFiscalStatus(ctx, []enum.FiscalStatus{
		enum.FiscalStatusPending,
		enum.FiscalStatusRejected,
		enum.FiscalStatusError,
	})
}

// attempt renders, composes and submits. It cannot fail: any panic or
// error is converted into an ERROR result.
func (s *FiscalService) attempt(ctx context.Context, sale *entity.Sale) (result fiscal.SubmissionResult, localArtifact []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[fiscal] sale %s: panic during submission: %v", sale.ID, r)
			result = fiscal.ErrorResult(fmt.Sprintf("fiscal processing failed: %v", r))
		}
	}()

	if s.renderer != nil {
		artifact, err := s.renderer.Render(sale)
		if err != nil {
			// Submission proceeds without an artifact.
			log.Printf("[fiscal] sale %s: artifact render failed: %v", sale.ID, err)
		} else {
			localArtifact = artifact
		}
	}

	document, err := s.composer.Compose(sale)
	if err != nil {
		return fiscal.ErrorResult("composing fiscal document: " + err.Error()), localArtifact
	}

	return s.client.Submit(ctx, sale, document, localArtifact), localArtifact
}

// apply copies a submission result onto the sale. On failure the
// previously stored access key and authorization number survive; only
// the status and message change.
func (s *FiscalService) apply(sale *entity.Sale, result fiscal.SubmissionResult, localArtifact []byte) {
	sale.FiscalStatus = result.Status

	if result.Status == enum.FiscalStatusAuthorized {
		sale.FiscalError = nil
	} else {
		message := result.Message
		if message == "" {
			message = "fiscal authorization failed"
		}
		sale.FiscalError = &message
	}

	if result.AccessKey != "" {
		accessKey := result.AccessKey
		sale.AccessKey = &accessKey
	}
	if result.AuthorizationNumber != "" {
		authNumber := result.AuthorizationNumber
		sale.AuthorizationNumber = &authNumber
	}

	// Prefer the authority's returned artifact over the local render.
	switch {
	case len(result.Artifact) > 0:
		sale.Artifact = result.Artifact
	case len(localArtifact) > 0:
		sale.Artifact = localArtifact
	}
}
