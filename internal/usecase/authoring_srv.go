package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	// Registered decoders for reading intrinsic dimensions of uploads.
	_ "image/jpeg"
	_ "image/png"

	"seat-chart/internal/data/entity"
	"seat-chart/pkg/geometry"
	"seat-chart/pkg/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthoringService drives the organizer workflow: upload a chart image,
// pick the active price category, click to place seats, publish. It keeps
// no state beyond the active tool; every persistent effect goes through the
// chart service.
type AuthoringService interface {
	// UploadChart validates and stores a chart image, then creates the
	// chart with the image's intrinsic dimensions.
	UploadChart(ctx context.Context, filename string, reader io.Reader) (*entity.SeatMap, error)

	// BeginPlacement selects the category newly placed seats belong to.
	BeginPlacement(ctx context.Context, mapID, categoryID uuid.UUID) error

	// PlaceAt places a seat at a clicked pixel position. display is the
	// resolution the organizer is viewing the chart at; pass the zero value
	// when pixel coordinates are already in intrinsic space.
	PlaceAt(ctx context.Context, mapID uuid.UUID, pixelX, pixelY float64, display geometry.ImageSize, attrs SeatAttrs) (*entity.Seat, error)

	// SelectExisting fetches a placed seat for the edit/delete flow.
	SelectExisting(ctx context.Context, mapID, seatID uuid.UUID) (*entity.Seat, error)

	// Publish freezes the chart for sale.
	Publish(ctx context.Context, mapID uuid.UUID) error
}

type authoringService struct {
	chart  ChartService
	images ImageStore

	maxBytes     int64
	allowedTypes []string

	mu     sync.Mutex
	active map[uuid.UUID]uuid.UUID // chart id -> active category

	log *zap.Logger
}

func NewAuthoringService(chart ChartService, images ImageStore, config *utils.Config, log *zap.Logger) AuthoringService {
	return &authoringService{
		chart:        chart,
		images:       images,
		maxBytes:     int64(config.Upload.MaxSizeMB) * 1024 * 1024,
		allowedTypes: config.Upload.AllowedTypes,
		active:       make(map[uuid.UUID]uuid.UUID),
		log:          log.With(zap.String("service", "authoring")),
	}
}

func (s *authoringService) UploadChart(ctx context.Context, filename string, reader io.Reader) (*entity.SeatMap, error) {
	data, err := io.ReadAll(io.LimitReader(reader, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, &UploadRejectedError{
			Reason: UploadReasonTooLarge,
			Detail: fmt.Sprintf("image exceeds %d bytes", s.maxBytes),
		}
	}

	detected := mimetype.Detect(data)
	if !s.typeAllowed(detected) {
		return nil, &UploadRejectedError{
			Reason: UploadReasonInvalidType,
			Detail: fmt.Sprintf("%s is not an accepted chart image type", detected.String()),
		}
	}

	// Intrinsic size at upload time anchors the normalized coordinate
	// space for the chart's whole life.
	imageConfig, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &UploadRejectedError{
			Reason: UploadReasonInvalidType,
			Detail: "image could not be decoded",
		}
	}

	ref, err := s.images.Save(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("store chart image: %w", err)
	}

	seatMap, err := s.chart.CreateChart(ctx, ref, geometry.ImageSize{
		Width:  imageConfig.Width,
		Height: imageConfig.Height,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Chart image uploaded",
		zap.String("seat_map_id", seatMap.ID.String()),
		zap.String("type", detected.String()),
		zap.Int("bytes", len(data)),
	)

	return seatMap, nil
}

func (s *authoringService) BeginPlacement(ctx context.Context, mapID, categoryID uuid.UUID) error {
	detail, err := s.chart.GetChart(ctx, mapID)
	if err != nil {
		return err
	}

	found := false
	for _, category := range detail.Categories {
		if category.ID == categoryID {
			found = true
			break
		}
	}
	if !found {
		return ErrCategoryNotFound
	}

	s.mu.Lock()
	s.active[mapID] = categoryID
	s.mu.Unlock()

	return nil
}

func (s *authoringService) PlaceAt(ctx context.Context, mapID uuid.UUID, pixelX, pixelY float64, display geometry.ImageSize, attrs SeatAttrs) (*entity.Seat, error) {
	s.mu.Lock()
	categoryID, ok := s.active[mapID]
	s.mu.Unlock()
	if !ok {
		return nil, newValidationError("category", "no active category; call begin placement first")
	}

	if !display.Valid() {
		detail, err := s.chart.GetChart(ctx, mapID)
		if err != nil {
			return nil, err
		}
		display = geometry.ImageSize{
			Width:  detail.Map.ImageWidth,
			Height: detail.Map.ImageHeight,
		}
	}

	pos, err := geometry.ToNormalized(pixelX, pixelY, display)
	if err != nil {
		return nil, newValidationError("position", err.Error())
	}

	return s.chart.AddSeat(ctx, mapID, pos, categoryID, attrs)
}

func (s *authoringService) SelectExisting(ctx context.Context, mapID, seatID uuid.UUID) (*entity.Seat, error) {
	detail, err := s.chart.GetChart(ctx, mapID)
	if err != nil {
		return nil, err
	}

	for _, seat := range detail.Seats {
		if seat.ID == seatID {
			return seat, nil
		}
	}
	return nil, ErrSeatNotFound
}

func (s *authoringService) Publish(ctx context.Context, mapID uuid.UUID) error {
	if err := s.chart.Freeze(ctx, mapID); err != nil {
		return err
	}

	// The placement tool is done with this chart.
	s.mu.Lock()
	delete(s.active, mapID)
	s.mu.Unlock()

	return nil
}

func (s *authoringService) typeAllowed(detected *mimetype.MIME) bool {
	for _, allowed := range s.allowedTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}
