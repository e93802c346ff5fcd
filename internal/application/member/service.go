// Package member covers the administrative membership surface:
// verification and per-member preference toggles.
package member

import (
	"context"
	"time"

	domainMember "github.com/lingorelay/lingorelay/internal/domain/member"
	domainTenant "github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/shared/biztime"
	"github.com/lingorelay/lingorelay/internal/shared/errors"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

// Service manages membership lifecycle and preferences.
type Service struct {
	memberRepo domainMember.Repository
	tenantRepo domainTenant.Repository
	logger     logger.Interface
	now        func() time.Time
}

func NewService(memberRepo domainMember.Repository, tenantRepo domainTenant.Repository, log logger.Interface) *Service {
	return &Service{
		memberRepo: memberRepo,
		tenantRepo: tenantRepo,
		logger:     log,
		now:        biztime.NowUTC,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Verify admits a user into a tenant. Creating the membership IS the
// verification; calling it again for a verified member is a no-op.
func (s *Service) Verify(ctx context.Context, tenantID uint, userID string) (*domainMember.Membership, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	existing, err := s.memberRepo.Find(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	m, err := domainMember.NewMembership(tenantID, userID, s.now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.memberRepo.Create(ctx, m); err != nil {
		if errors.IsDuplicateError(err) || errors.IsConflictError(err) {
			return s.memberRepo.Find(ctx, tenantID, userID)
		}
		return nil, err
	}

	s.logger.Infow("member verified", "tenant_id", tenantID, "user_id", userID)
	return m, nil
}

// SetImmersion toggles the member's immersion mode.
func (s *Service) SetImmersion(ctx context.Context, tenantID uint, userID string, enabled bool) error {
	return s.update(ctx, tenantID, userID, func(m *domainMember.Membership) {
		m.SetImmersion(enabled)
	})
}

// SetHideStats toggles the member's leaderboard opt-out.
func (s *Service) SetHideStats(ctx context.Context, tenantID uint, userID string, hide bool) error {
	return s.update(ctx, tenantID, userID, func(m *domainMember.Membership) {
		m.SetHideStats(hide)
	})
}

// SetDisplayName overrides the name shown on relayed messages.
func (s *Service) SetDisplayName(ctx context.Context, tenantID uint, userID, name string) error {
	return s.update(ctx, tenantID, userID, func(m *domainMember.Membership) {
		m.SetDisplayName(name)
	})
}

func (s *Service) update(ctx context.Context, tenantID uint, userID string, mutate func(*domainMember.Membership)) error {
	m, err := s.memberRepo.Find(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.NewNotFoundError("membership not found")
	}
	mutate(m)
	return s.memberRepo.Update(ctx, m)
}
