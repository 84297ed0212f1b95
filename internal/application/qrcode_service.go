package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// Scan outcomes reported to the ScanRecorder
const (
	ScanRedirected   = "redirected"
	ScanUnrecognized = "unrecognized"
	ScanFailed       = "failed"
)

// QRCodeService handles the QR code lifecycle and scan resolution
type QRCodeService struct {
	repo      ports.QRCodeRepository
	urls      ports.URLResolver
	validator ports.Validator
	publisher ports.ScanPublisher
	recorder  ports.ScanRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQRCodeService creates a new QR code service. publisher and recorder may be nil.
func NewQRCodeService(
	repo ports.QRCodeRepository,
	urls ports.URLResolver,
	validator ports.Validator,
	publisher ports.ScanPublisher,
	recorder ports.ScanRecorder,
	logger zerolog.Logger,
) *QRCodeService {
	return &QRCodeService{
		repo:      repo,
		urls:      urls,
		validator: validator,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// Create validates fields and stores a new QR code for shop with zero scans
func (s *QRCodeService) Create(ctx context.Context, shop string, fields domain.QRCodeFields) (int64, error) {
	if shop == "" {
		return 0, domain.NewValidationError("shop", "is required")
	}
	if err := s.validator.Struct(fields); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, shop, fields)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Str("shop", shop).
		Int64("qrCodeId", id).
		Str("destination", string(fields.Destination)).
		Msg("QR code created")
	return id, nil
}

// Update validates fields and replaces the mutable fields of the QR code
func (s *QRCodeService) Update(ctx context.Context, id int64, fields domain.QRCodeFields) error {
	if err := s.validator.Struct(fields); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return err
	}

	s.logger.Info().Int64("qrCodeId", id).Msg("QR code updated")
	return nil
}

// List returns the QR codes of shop with their image and scan URLs
func (s *QRCodeService) List(ctx context.Context, shop string) ([]*domain.QRCode, error) {
	codes, err := s.repo.List(ctx, shop)
	if err != nil {
		return nil, err
	}
	for _, q := range codes {
		s.urls.Attach(q)
	}
	return codes, nil
}

// Read returns the QR code with its URLs attached, or nil when it does not exist
func (s *QRCodeService) Read(ctx context.Context, id int64) (*domain.QRCode, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil || q == nil {
		return nil, err
	}
	s.urls.Attach(q)
	return q, nil
}

// ReadForShop is Read restricted to the QR codes of shop. A code of another shop is reported as absent.
func (s *QRCodeService) ReadForShop(ctx context.Context, shop string, id int64) (*domain.QRCode, error) {
	q, err := s.Read(ctx, id)
	if err != nil || q == nil {
		return nil, err
	}
	if q.ShopDomain != shop {
		return nil, nil
	}
	return q, nil
}

// Delete removes the QR code
func (s *QRCodeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("qrCodeId", id).Msg("QR code deleted")
	return nil
}

// HandleScan counts a scan of q and returns the URL the customer is redirected to.
// The counter is incremented before the destination is resolved, so a scan of a code
// with an unrecognized destination is still counted.
func (s *QRCodeService) HandleScan(ctx context.Context, q *domain.QRCode) (string, error) {
	if err := s.repo.IncrementScans(ctx, q.ID); err != nil {
		return "", fmt.Errorf("failed to count scan: %w", err)
	}

	event := &domain.ScanEvent{
		QRCodeID:    q.ID,
		Shop:        q.ShopDomain,
		Destination: q.Destination,
		ScannedAt:   s.now().UTC(),
	}

	target, err := s.urls.DestinationURL(q)
	if err != nil {
		outcome := ScanFailed
		if errors.Is(err, domain.ErrUnrecognizedDestination) {
			outcome = ScanUnrecognized
		}
		s.logger.Warn().
			Err(err).
			Int64("qrCodeId", q.ID).
			Str("destination", string(q.Destination)).
			Msg("Scan could not be resolved")

		event.Error = err.Error()
		s.emit(event, outcome)
		return "", err
	}

	event.DestinationURL = target
	s.emit(event, ScanRedirected)
	return target, nil
}

func (s *QRCodeService) emit(event *domain.ScanEvent, outcome string) {
	if s.recorder != nil {
		s.recorder.ObserveScan(string(event.Destination), outcome)
	}
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}
