package bins

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"wastewise/apperr"
	"wastewise/models"
	"wastewise/utils"

	"go.uber.org/zap"
)

const defaultStatus = "active"

type Service struct {
	store Store
	now   func() time.Time
	log   *zap.SugaredLogger
}

func NewService(store Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, now: time.Now, log: log}
}

// BinInput carries create and update fields. Nil fields are left unchanged on update.
type BinInput struct {
	Type     *string          `json:"type"`
	Capacity *int             `json:"capacity"`
	Location *models.Location `json:"location"`
	Address  *string          `json:"address"`
	Status   *string          `json:"status"`
}

func validate(b *models.Bin) error {
	if !slices.Contains(models.BinTypes, b.Type) {
		return apperr.Validation("invalid bin type")
	}
	if b.Capacity <= 0 {
		return apperr.Validation("capacity must be positive")
	}
	if b.Location.Lat < -90 || b.Location.Lat > 90 || b.Location.Lng < -180 || b.Location.Lng > 180 {
		return apperr.Validation("invalid location")
	}
	if !slices.Contains(models.BinStatuses, b.Status) {
		return apperr.Validation("invalid bin status")
	}
	return nil
}

func apply(b *models.Bin, in BinInput) {
	if in.Type != nil {
		b.Type = strings.ToLower(strings.TrimSpace(*in.Type))
	}
	if in.Capacity != nil {
		b.Capacity = *in.Capacity
	}
	if in.Location != nil {
		b.Location = *in.Location
	}
	if in.Address != nil {
		b.Address = strings.TrimSpace(*in.Address)
	}
	if in.Status != nil {
		b.Status = strings.ToLower(strings.TrimSpace(*in.Status))
	}
}

func (s *Service) Create(ctx context.Context, ownerID string, in BinInput) (*models.Bin, error) {
	if in.Type == nil || in.Capacity == nil || in.Location == nil {
		return nil, apperr.Validation("type, capacity and location are required")
	}
	now := s.now().UTC()
	b := &models.Bin{
		ID:        utils.GetUUID(),
		OwnerID:   ownerID,
		Status:    defaultStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(b, in)
	if err := validate(b); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, apperr.Internal("could not create bin", err)
	}
	s.log.Infow("bin registered", "bin", b.ID, "owner", ownerID, "type", b.Type)
	return b, nil
}

// Get returns a bin the caller may see: their own, or any for an admin.
func (s *Service) Get(ctx context.Context, id, userID string, isAdmin bool) (*models.Bin, error) {
	b, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrBinNotFound) {
		return nil, apperr.NotFound("bin not found")
	}
	if err != nil {
		return nil, apperr.Internal("could not load bin", err)
	}
	if b.OwnerID != userID && !isAdmin {
		return nil, apperr.Forbidden("not your bin")
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, userID string, isAdmin bool) ([]models.Bin, error) {
	owner := userID
	if isAdmin {
		owner = ""
	}
	bins, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, apperr.Internal("could not load bins", err)
	}
	return bins, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, isAdmin bool, in BinInput) (*models.Bin, error) {
	b, err := s.Get(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	apply(b, in)
	if err := validate(b); err != nil {
		return nil, err
	}
	b.UpdatedAt = s.now().UTC()

	err = s.store.Replace(ctx, b)
	if errors.Is(err, ErrBinNotFound) {
		return nil, apperr.NotFound("bin not found")
	}
	if err != nil {
		return nil, apperr.Internal("could not update bin", err)
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string, isAdmin bool) error {
	if _, err := s.Get(ctx, id, userID, isAdmin); err != nil {
		return err
	}
	err := s.store.Delete(ctx, id)
	if errors.Is(err, ErrBinNotFound) {
		return apperr.NotFound("bin not found")
	}
	if err != nil {
		return apperr.Internal("could not delete bin", err)
	}
	s.log.Infow("bin removed", "bin", id, "by", userID)
	return nil
}

func (s *Service) Stats(ctx context.Context) ([]models.BinTypeStats, error) {
	stats, err := s.store.StatsByType(ctx)
	if err != nil {
		return nil, apperr.Internal("could not compute bin stats", err)
	}
	return stats, nil
}
