// Package investment manages owner-scoped investment records.
package investment

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/entity"
	invrepo "github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/repo"
)

var (
	ErrNotFound   = errors.New("investment not found")
	ErrEmptyPatch = errors.New("no updatable fields given")
)

// Store is the record store the service needs.
type Store interface {
	Create(ctx context.Context, inv *entity.Investment) error
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Investment, error)
	UpdateByOwner(ctx context.Context, id, ownerID string, p entity.Patch) (*entity.Investment, error)
	DeleteByOwner(ctx context.Context, id, ownerID string) error
}

// IDSource produces new record ids.
type IDSource interface {
	NewID() string
}

// Service is the business layer over Store. The owner always comes from
// the caller's identity, never from the request body.
type Service struct {
	repo Store
	ids  IDSource
	now  func() time.Time
}

func NewService(r Store, ids IDSource) *Service {
	return &Service{repo: r, ids: ids, now: func() time.Time { return time.Now().UTC() }}
}

// CreateInput is the create payload. Numbers are pointers so that an
// explicit 0 is accepted while a missing field is not.
type CreateInput struct {
	ProjectName     string     `json:"projectName"`
	AmountInvested  *float64   `json:"amountInvested"`
	EnergyGenerated *float64   `json:"energyGenerated"`
	Returns         *float64   `json:"returns"`
	Date            *time.Time `json:"date"`
}

func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ProjectName, validation.Required),
		validation.Field(&in.AmountInvested, validation.NotNil),
		validation.Field(&in.EnergyGenerated, validation.NotNil),
		validation.Field(&in.Returns, validation.NotNil),
	)
}

func validatePatch(p entity.Patch) error {
	if p.Empty() {
		return ErrEmptyPatch
	}
	if p.ProjectName != nil && strings.TrimSpace(*p.ProjectName) == "" {
		return validation.Errors{"projectName": errors.New("cannot be blank")}
	}
	return nil
}

// Create stores a new record owned by ownerID. Date defaults to now.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*entity.Investment, error) {
	in.ProjectName = strings.TrimSpace(in.ProjectName)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	inv := &entity.Investment{
		ID:              s.ids.NewID(),
		OwnerID:         ownerID,
		ProjectName:     in.ProjectName,
		AmountInvested:  *in.AmountInvested,
		EnergyGenerated: *in.EnergyGenerated,
		Returns:         *in.Returns,
		Date:            s.now(),
	}
	if in.Date != nil && !in.Date.IsZero() {
		inv.Date = in.Date.UTC()
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// List returns every record of ownerID; none is a valid, empty result.
func (s *Service) List(ctx context.Context, ownerID string) ([]entity.Investment, error) {
	out, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Investment{}
	}
	return out, nil
}

// Update changes only the whitelisted fields in p. A record that exists but
// belongs to someone else is reported as not found.
func (s *Service) Update(ctx context.Context, ownerID, id string, p entity.Patch) (*entity.Investment, error) {
	if err := validatePatch(p); err != nil {
		return nil, err
	}
	if p.ProjectName != nil {
		name := strings.TrimSpace(*p.ProjectName)
		p.ProjectName = &name
	}
	inv, err := s.repo.UpdateByOwner(ctx, id, ownerID, p)
	if errors.Is(err, invrepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return inv, err
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	err := s.repo.DeleteByOwner(ctx, id, ownerID)
	if errors.Is(err, invrepo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
