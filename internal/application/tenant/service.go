// Package tenant covers the administrative tenant surface: registration,
// channel configuration and tier changes.
package tenant

import (
	"context"
	"time"

	"github.com/lingorelay/lingorelay/internal/domain/plan"

	domainTenant "github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/infrastructure/cache"
	"github.com/lingorelay/lingorelay/internal/shared/biztime"
	"github.com/lingorelay/lingorelay/internal/shared/errors"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

// CredentialInvalidator drops cached delivery credentials for a channel
// so the next relay re-reads the mapping.
type CredentialInvalidator interface {
	Invalidate(key string)
}

// Service manages tenant registration and channel configuration.
type Service struct {
	repo        domainTenant.Repository
	invalidator CredentialInvalidator
	logger      logger.Interface
	now         func() time.Time
}

func NewService(repo domainTenant.Repository, invalidator CredentialInvalidator, log logger.Interface) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      log,
		now:         biztime.NowUTC,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Register creates a tenant for a platform space.
func (s *Service) Register(ctx context.Context, spaceID, name, tier string) (*domainTenant.Tenant, error) {
	parsedTier, err := plan.ParseTier(tier)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	t, err := domainTenant.NewTenant(spaceID, name, parsedTier, s.now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Infow("tenant registered", "tenant_id", t.ID(), "space_id", spaceID, "tier", parsedTier)
	return t, nil
}

// Get loads a tenant by id.
func (s *Service) Get(ctx context.Context, tenantID uint) (*domainTenant.Tenant, error) {
	t, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}
	return t, nil
}

// SetChannel binds a language to a channel. Rebinding an existing
// language replaces the mapping and drops its cached credential.
func (s *Service) SetChannel(ctx context.Context, tenantID uint, language, channelID string) error {
	lang, err := domainTenant.NewLanguage(language)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	t, err := s.Get(ctx, tenantID)
	if err != nil {
		return err
	}

	t.SetChannel(domainTenant.ChannelMapping{
		Language:  lang,
		ChannelID: channelID,
		Enabled:   true,
	})
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}

	s.invalidator.Invalidate(cache.Key(tenantID, lang.String()))
	return nil
}

// DisableChannel takes a language out of the relay fan-out.
func (s *Service) DisableChannel(ctx context.Context, tenantID uint, language string) error {
	lang, err := domainTenant.NewLanguage(language)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	t, err := s.Get(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := t.DisableChannel(lang); err != nil {
		return errors.NewNotFoundError(err.Error())
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}

	s.invalidator.Invalidate(cache.Key(tenantID, lang.String()))
	return nil
}

// SetLogChannel points moderation notifications at a channel.
func (s *Service) SetLogChannel(ctx context.Context, tenantID uint, channelID string) error {
	t, err := s.Get(ctx, tenantID)
	if err != nil {
		return err
	}
	t.SetLogChannel(channelID)
	return s.repo.Update(ctx, t)
}

// SetTier moves the tenant to another subscription tier. The monthly
// counter is kept; only the ceiling changes.
func (s *Service) SetTier(ctx context.Context, tenantID uint, tier string) error {
	parsedTier, err := plan.ParseTier(tier)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	t, err := s.Get(ctx, tenantID)
	if err != nil {
		return err
	}
	t.SetTier(parsedTier)
	return s.repo.Update(ctx, t)
}
