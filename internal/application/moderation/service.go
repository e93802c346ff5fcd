// Package moderation orchestrates ban and warning operations: state
// transitions, audit records and log-channel notifications.
package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/shared/biztime"
	"github.com/lingorelay/lingorelay/internal/shared/db"
	"github.com/lingorelay/lingorelay/internal/shared/errors"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

// Notifier posts moderation notifications to a tenant's log channel.
type Notifier interface {
	SendChannelMessage(ctx context.Context, channelID, content string) error
}

// Status is the moderation standing of a user inside a tenant.
type Status struct {
	Ban          *moderation.Ban
	WarningCount int64
	Warnings     []*moderation.Warning
}

// Service implements the moderation command surface.
type Service struct {
	repo       moderation.Repository
	tenantRepo tenant.Repository
	txManager  *db.TransactionManager
	notifier   Notifier
	logger     logger.Interface
	now        func() time.Time
}

// NewService wires the moderation service.
func NewService(
	repo moderation.Repository,
	tenantRepo tenant.Repository,
	txManager *db.TransactionManager,
	notifier Notifier,
	log logger.Interface,
) *Service {
	return &Service{
		repo:       repo,
		tenantRepo: tenantRepo,
		txManager:  txManager,
		notifier:   notifier,
		logger:     log,
		now:        biztime.NowUTC,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Ban places a permanent ban. Fails with a conflict when an active ban
// already exists.
func (s *Service) Ban(ctx context.Context, tenantID uint, userID, reason, actorID string) (*moderation.Ban, error) {
	return s.ban(ctx, tenantID, userID, reason, actorID, nil, moderation.AuditActionBan)
}

// Timeout places a ban with a mandatory duration.
func (s *Service) Timeout(ctx context.Context, tenantID uint, userID, reason, actorID string, duration time.Duration) (*moderation.Ban, error) {
	if duration <= 0 {
		return nil, errors.NewValidationError(moderation.ErrDurationNeeded.Error())
	}
	expiresAt := s.now().Add(duration)
	return s.ban(ctx, tenantID, userID, reason, actorID, &expiresAt, moderation.AuditActionTimeout)
}

func (s *Service) ban(ctx context.Context, tenantID uint, userID, reason, actorID string, expiresAt *time.Time, action moderation.AuditAction) (*moderation.Ban, error) {
	now := s.now()

	var created *moderation.Ban
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.DeactivateExpired(txCtx, tenantID, userID, now); err != nil {
			return err
		}
		existing, err := s.repo.FindActiveBan(txCtx, tenantID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.NewConflictError(moderation.ErrAlreadyBanned.Error())
		}

		b, err := moderation.NewBan(tenantID, userID, reason, actorID, expiresAt, now)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := s.repo.CreateBan(txCtx, b); err != nil {
			return err
		}
		created = b

		return s.repo.CreateAudit(txCtx, moderation.NewAuditEntry(tenantID, userID, action, reason, actorID, now))
	})
	if err != nil {
		return nil, err
	}

	s.notifyLogChannel(ctx, tenantID, banAppliedNotice(userID, actorID, reason, expiresAt))
	return created, nil
}

// Unban lifts the active ban. Fails with not-found when none is active.
func (s *Service) Unban(ctx context.Context, tenantID uint, userID, reason, actorID string) error {
	now := s.now()

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.DeactivateExpired(txCtx, tenantID, userID, now); err != nil {
			return err
		}
		b, err := s.repo.FindActiveBan(txCtx, tenantID, userID)
		if err != nil {
			return err
		}
		if b == nil {
			return errors.NewNotFoundError(moderation.ErrNoActiveBan.Error())
		}

		if err := b.Lift(actorID, reason, now); err != nil {
			return errors.NewConflictError(err.Error())
		}
		if err := s.repo.UpdateBan(txCtx, b); err != nil {
			return err
		}

		return s.repo.CreateAudit(txCtx, moderation.NewAuditEntry(tenantID, userID, moderation.AuditActionUnban, reason, actorID, now))
	})
	if err != nil {
		return err
	}

	s.notifyLogChannel(ctx, tenantID, fmt.Sprintf("Unbanned <@%s> by <@%s>. Reason: %s", userID, actorID, reasonOrDefault(reason)))
	return nil
}

// Warn issues a warning and returns the new active count. Always succeeds
// for a valid pair.
func (s *Service) Warn(ctx context.Context, tenantID uint, userID, reason, actorID string) (int64, error) {
	now := s.now()

	var count int64
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		w, err := moderation.NewWarning(tenantID, userID, reason, actorID, now)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := s.repo.CreateWarning(txCtx, w); err != nil {
			return err
		}

		count, err = s.repo.CountActiveWarnings(txCtx, tenantID, userID)
		if err != nil {
			return err
		}

		return s.repo.CreateAudit(txCtx, moderation.NewAuditEntry(tenantID, userID, moderation.AuditActionWarn, reason, actorID, now))
	})
	if err != nil {
		return 0, err
	}

	s.notifyLogChannel(ctx, tenantID, fmt.Sprintf("Warned <@%s> by <@%s> (%d active). Reason: %s",
		userID, actorID, count, reasonOrDefault(reason)))
	return count, nil
}

// RemoveWarning flips one active warning inactive.
func (s *Service) RemoveWarning(ctx context.Context, tenantID uint, warningID uint, actorID string) error {
	now := s.now()

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		w, err := s.repo.FindWarning(txCtx, warningID)
		if err != nil {
			return err
		}
		if w == nil || w.TenantID() != tenantID {
			return errors.NewNotFoundError("warning not found")
		}
		if !w.Active() {
			return errors.NewConflictError("warning is not active")
		}

		if err := w.Clear(now); err != nil {
			return errors.NewConflictError(err.Error())
		}
		if err := s.repo.UpdateWarning(txCtx, w); err != nil {
			return err
		}

		return s.repo.CreateAudit(txCtx, moderation.NewAuditEntry(tenantID, w.UserID(), moderation.AuditActionRemoveWarning, "", actorID, now))
	})
	if err != nil {
		return err
	}

	s.notifyLogChannel(ctx, tenantID, fmt.Sprintf("Warning %d removed by <@%s>.", warningID, actorID))
	return nil
}

// ClearWarnings flips every active warning of the pair and returns the count.
func (s *Service) ClearWarnings(ctx context.Context, tenantID uint, userID, actorID string) (int64, error) {
	now := s.now()

	var cleared int64
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		cleared, err = s.repo.ClearWarnings(txCtx, tenantID, userID, now)
		if err != nil {
			return err
		}

		return s.repo.CreateAudit(txCtx, moderation.NewAuditEntry(tenantID, userID, moderation.AuditActionClearWarnings, "", actorID, now))
	})
	if err != nil {
		return 0, err
	}

	s.notifyLogChannel(ctx, tenantID, fmt.Sprintf("Cleared %d warning(s) for <@%s> by <@%s>.", cleared, userID, actorID))
	return cleared, nil
}

// Status sweeps expired bans for the pair, then reports the remaining
// standing: the active ban (if any) and the active warnings.
func (s *Service) Status(ctx context.Context, tenantID uint, userID string) (*Status, error) {
	now := s.now()

	if _, err := s.repo.DeactivateExpired(ctx, tenantID, userID, now); err != nil {
		return nil, err
	}

	ban, err := s.repo.FindActiveBan(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	warnings, err := s.repo.ListActiveWarnings(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	return &Status{
		Ban:          ban,
		WarningCount: int64(len(warnings)),
		Warnings:     warnings,
	}, nil
}

// SweepExpiredBans flips every expired active ban across tenants. Worker
// job; lazy expiry on reads makes it additive, never load-bearing.
func (s *Service) SweepExpiredBans(ctx context.Context) (int64, error) {
	return s.repo.DeactivateAllExpired(ctx, s.now())
}

// notifyLogChannel posts to the tenant's configured log channel. Best effort:
// a failure never rolls back the state change it reports.
func (s *Service) notifyLogChannel(ctx context.Context, tenantID uint, content string) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil || t == nil || t.LogChannelID() == "" {
		return
	}
	if err := s.notifier.SendChannelMessage(ctx, t.LogChannelID(), content); err != nil {
		s.logger.Debugw("log channel notification failed",
			"tenant_id", tenantID, "channel_id", t.LogChannelID(), "error", err)
	}
}

func banAppliedNotice(userID, actorID, reason string, expiresAt *time.Time) string {
	if expiresAt == nil {
		return fmt.Sprintf("Banned <@%s> by <@%s>. Reason: %s", userID, actorID, reasonOrDefault(reason))
	}
	return fmt.Sprintf("Timed out <@%s> by <@%s> until %s. Reason: %s",
		userID, actorID, expiresAt.UTC().Format("2006-01-02 15:04 MST"), reasonOrDefault(reason))
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "not given"
	}
	return reason
}
