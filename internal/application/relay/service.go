// Package relay implements the message relay pipeline: gate checks, usage
// accounting, translation fan-out and user notices.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/lingorelay/lingorelay/internal/domain/achievement"
	"github.com/lingorelay/lingorelay/internal/domain/member"
	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/domain/plan"
	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/domain/usage"
	"github.com/lingorelay/lingorelay/internal/infrastructure/cache"
	"github.com/lingorelay/lingorelay/internal/infrastructure/platform"
	"github.com/lingorelay/lingorelay/internal/shared/biztime"
	"github.com/lingorelay/lingorelay/internal/shared/db"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

const (
	// channelNoticeTTL bounds how long an in-channel fallback notice stays up.
	channelNoticeTTL = 30 * time.Second
	// defaultWarningThreshold is the budget fraction that triggers a warning.
	defaultWarningThreshold = 0.8
	// achievementReactionEmoji marks the original message when a DM about an
	// unlock is refused.
	achievementReactionEmoji = "🏆"
)

// Service runs the relay pipeline for inbound message events.
type Service struct {
	tenantRepo     tenant.Repository
	memberRepo     member.Repository
	globalUserRepo member.GlobalUserRepository
	moderationRepo moderation.Repository
	usageRepo      usage.Repository
	txManager      *db.TransactionManager
	translator     Translator
	deliverer      Deliverer
	platform       Platform
	notices        NoticeGate
	logger         logger.Interface

	warningThreshold float64
	now              func() time.Time
}

// NewService wires the relay pipeline.
func NewService(
	tenantRepo tenant.Repository,
	memberRepo member.Repository,
	globalUserRepo member.GlobalUserRepository,
	moderationRepo moderation.Repository,
	usageRepo usage.Repository,
	txManager *db.TransactionManager,
	translator Translator,
	deliverer Deliverer,
	platformClient Platform,
	notices NoticeGate,
	warningThreshold float64,
	log logger.Interface,
) *Service {
	if warningThreshold <= 0 || warningThreshold >= 1 {
		warningThreshold = defaultWarningThreshold
	}
	return &Service{
		tenantRepo:       tenantRepo,
		memberRepo:       memberRepo,
		globalUserRepo:   globalUserRepo,
		moderationRepo:   moderationRepo,
		usageRepo:        usageRepo,
		txManager:        txManager,
		translator:       translator,
		deliverer:        deliverer,
		platform:         platformClient,
		notices:          notices,
		logger:           log,
		warningThreshold: warningThreshold,
		now:              biztime.NowUTC,
	}
}

// SetClock overrides the pipeline clock. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// ProcessMessage runs one inbound event through the pipeline. Gate
// rejections (unverified, opted out, banned, over budget) drop the event
// silently with an optional notice and return nil; only upstream and
// persistence failures surface as errors.
func (s *Service) ProcessMessage(ctx context.Context, evt MessageEvent) error {
	// Automated senders, events outside a space, and empty text carry no
	// side effects at all.
	if evt.FromBot || evt.SpaceID == "" || !hasText(evt.Text) {
		return nil
	}

	t, err := s.tenantRepo.FindBySpaceID(ctx, evt.SpaceID)
	if err != nil {
		return fmt.Errorf("failed to resolve tenant: %w", err)
	}
	if t == nil {
		return nil
	}

	sourceLang, ok := t.ChannelLanguage(evt.ChannelID)
	if !ok {
		return nil
	}

	m, err := s.memberRepo.Find(ctx, t.ID(), evt.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve membership: %w", err)
	}
	if m == nil || !m.Verified() {
		s.rejectUnverified(ctx, t, evt)
		return nil
	}

	if !m.ImmersionEnabled() {
		s.removeAndNotify(ctx, t.ID(), evt, immersionDisabledNotice())
		return nil
	}

	ban, err := s.activeBan(ctx, t.ID(), evt.UserID)
	if err != nil {
		return err
	}
	if ban != nil {
		s.removeAndNotify(ctx, t.ID(), evt, banNotice(ban))
		return nil
	}

	now := s.now()
	if err := s.rolloverCounters(ctx, t, m, now); err != nil {
		return err
	}

	targets := t.TargetMappings(sourceLang)
	if len(targets) == 0 {
		return nil
	}
	characterCost := int64(utf8.RuneCountInString(evt.Text)) * int64(len(targets))

	globalUser, err := s.globalUserRepo.FindByUserID(ctx, evt.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve global user: %w", err)
	}
	personalTier := plan.TierFree
	if globalUser != nil {
		personalTier = globalUser.Tier()
	}

	effectiveUserLimit := plan.EffectiveUserLimit(personalTier, t.Tier())
	if m.MonthlyUsage()+characterCost > effectiveUserLimit {
		s.removeAndNotify(ctx, t.ID(), evt, userLimitNotice(m.MonthlyUsage(), effectiveUserLimit))
		return nil
	}
	if t.MonthlyUsage()+characterCost > t.CharacterLimit() {
		s.removeAndNotify(ctx, t.ID(), evt, tenantLimitNotice(t.MonthlyUsage(), t.CharacterLimit()))
		return nil
	}

	targetLangs := make([]tenant.Language, len(targets))
	for i, tm := range targets {
		targetLangs[i] = tm.Language
	}
	translations, err := s.translator.TranslateAll(ctx, evt.Text, sourceLang, targetLangs)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	// Fan-out first, ledger second. Failures are isolated per target.
	identity := platform.DisplayIdentity{Name: evt.DisplayName, AvatarURL: evt.AvatarURL}
	for _, tm := range targets {
		updated, err := s.deliverer.Deliver(ctx, t.ID(), tm, identity, translations[tm.Language])
		if err != nil {
			s.logger.Errorw("delivery failed, continuing fan-out",
				"tenant_id", t.ID(), "language", tm.Language.String(), "error", err)
			continue
		}
		if updated != nil {
			t.SetChannel(*updated)
		}
	}

	if err := s.commitAccounting(ctx, t, m, globalUser, evt, sourceLang, targetLangs, characterCost, now); err != nil {
		s.logger.Errorw("accounting commit failed after successful fan-out",
			"tenant_id", t.ID(), "user_id", evt.UserID, "cost", characterCost, "error", err)
		return err
	}

	s.notifyAchievements(ctx, t, m, evt)
	s.maybeWarnBudget(ctx, t, m, evt.UserID, characterCost, effectiveUserLimit, now)
	return nil
}

func hasText(text string) bool {
	for _, r := range text {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

// activeBan sweeps expired bans for the pair and returns the remaining
// active one, if any. Expiry is lazy: no timer ever has to fire for a ban
// past its expiry to stop gating.
func (s *Service) activeBan(ctx context.Context, tenantID uint, userID string) (*moderation.Ban, error) {
	if _, err := s.moderationRepo.DeactivateExpired(ctx, tenantID, userID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to sweep expired bans: %w", err)
	}
	ban, err := s.moderationRepo.FindActiveBan(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ban status: %w", err)
	}
	return ban, nil
}

// rolloverCounters resets both monthly counters when a new month has started,
// persisting before any limit is evaluated.
func (s *Service) rolloverCounters(ctx context.Context, t *tenant.Tenant, m *member.Membership, now time.Time) error {
	if t.RolloverIfDue(now) {
		if err := s.tenantRepo.Update(ctx, t); err != nil {
			return fmt.Errorf("failed to persist tenant rollover: %w", err)
		}
	}
	if m.RolloverIfDue(now) {
		if err := s.memberRepo.Update(ctx, m); err != nil {
			return fmt.Errorf("failed to persist membership rollover: %w", err)
		}
	}
	return nil
}

// commitAccounting applies the post-delivery accounting as one transaction:
// usage counters, streak, ledger entry and lifetime totals commit together
// or not at all.
func (s *Service) commitAccounting(
	ctx context.Context,
	t *tenant.Tenant,
	m *member.Membership,
	globalUser *member.GlobalUser,
	evt MessageEvent,
	sourceLang tenant.Language,
	targetLangs []tenant.Language,
	characterCost int64,
	now time.Time,
) error {
	targetCodes := make([]string, len(targetLangs))
	for i, lang := range targetLangs {
		targetCodes[i] = lang.String()
	}

	return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t.AddUsage(characterCost)
		if err := s.tenantRepo.Update(txCtx, t); err != nil {
			return err
		}

		if globalUser == nil {
			created, err := member.NewGlobalUser(evt.UserID, now)
			if err != nil {
				return err
			}
			if err := s.globalUserRepo.Create(txCtx, created); err != nil {
				return err
			}
			globalUser = created
		}
		globalUser.AddLifetimeUsage(1, characterCost)
		if err := s.globalUserRepo.Update(txCtx, globalUser); err != nil {
			return err
		}

		m.AddUsage(characterCost)
		m.IncrementTranslations()
		m.RecordActivity(now)
		if m.GlobalUserID() == nil {
			m.LinkGlobalUser(globalUser.ID())
		}
		if err := s.memberRepo.Update(txCtx, m); err != nil {
			return err
		}

		entry, err := usage.NewLogEntry(t.ID(), evt.UserID, sourceLang.String(), targetCodes, characterCost, now)
		if err != nil {
			return err
		}
		return s.usageRepo.Create(txCtx, entry)
	})
}

// notifyAchievements evaluates the catalog against post-commit stats,
// persists fresh unlocks and tells the user. Best-effort throughout.
func (s *Service) notifyAchievements(ctx context.Context, t *tenant.Tenant, m *member.Membership, evt MessageEvent) {
	var lifetimeCharacters int64
	if g, err := s.globalUserRepo.FindByUserID(ctx, evt.UserID); err == nil && g != nil {
		lifetimeCharacters = g.LifetimeCharacters()
	}

	newly := achievement.Evaluate(achievement.Catalog(), m.UnlockedAchievements(), achievement.Stats{
		Translations: m.TotalTranslations(),
		Streak:       int64(m.CurrentStreak()),
		Characters:   lifetimeCharacters,
	})
	if len(newly) == 0 {
		return
	}

	m.UnlockAchievements(newly)
	if err := s.memberRepo.Update(ctx, m); err != nil {
		s.logger.Errorw("failed to persist achievement unlocks",
			"tenant_id", t.ID(), "user_id", evt.UserID, "achievements", newly, "error", err)
		return
	}

	notice := achievementNotice(newly)
	if notice == "" {
		return
	}
	if err := s.platform.SendDirect(ctx, evt.UserID, notice); err != nil {
		if errors.Is(err, platform.ErrDeliveryRefused) {
			if err := s.platform.React(ctx, evt.ChannelID, evt.MessageID, achievementReactionEmoji); err != nil {
				s.logger.Debugw("achievement reaction failed", "error", err)
			}
			return
		}
		s.logger.Debugw("achievement notice failed", "user_id", evt.UserID, "error", err)
	}
}

// maybeWarnBudget sends the remaining-budget notice when this event crossed
// the warning threshold without reaching the limit. Deduplicated to once per
// billing month.
func (s *Service) maybeWarnBudget(ctx context.Context, t *tenant.Tenant, m *member.Membership, userID string, characterCost, limit int64, now time.Time) {
	usageAfter := m.MonthlyUsage()
	if usageAfter >= limit {
		return
	}
	threshold := int64(float64(limit) * s.warningThreshold)
	if usageAfter < threshold || usageAfter-characterCost >= threshold {
		return
	}

	ttl := cache.BudgetWarningTTL(now, biztime.NextMonthStart(now))
	ok, err := s.notices.TryAcquire(ctx, cache.NoticeTypeBudgetWarning, t.ID(), userID, ttl)
	if err != nil || !ok {
		return
	}

	if err := s.platform.SendDirect(ctx, userID, budgetWarningNotice(usageAfter, limit)); err != nil {
		s.logger.Debugw("budget warning notice failed", "user_id", userID, "error", err)
	}
}

// rejectUnverified removes the message and sends the one-time verification
// hint, falling back to a short-lived in-channel notice when DMs are closed.
func (s *Service) rejectUnverified(ctx context.Context, t *tenant.Tenant, evt MessageEvent) {
	s.removeMessage(ctx, evt)

	ok, err := s.notices.TryAcquire(ctx, cache.NoticeTypeVerification, t.ID(), evt.UserID, cache.DefaultVerificationNoticeCooldown)
	if err != nil || !ok {
		return
	}

	if err := s.platform.SendDirect(ctx, evt.UserID, verificationNotice()); err != nil {
		if errors.Is(err, platform.ErrDeliveryRefused) {
			if err := s.platform.SendTemporaryMessage(ctx, evt.ChannelID, verificationNotice(), channelNoticeTTL); err != nil {
				s.logger.Debugw("verification channel notice failed", "error", err)
			}
			return
		}
		s.logger.Debugw("verification notice failed", "user_id", evt.UserID, "error", err)
	}
}

// removeAndNotify drops the message and posts a short-lived in-channel
// explanation. Gate rejections never escalate.
func (s *Service) removeAndNotify(ctx context.Context, tenantID uint, evt MessageEvent, notice string) {
	s.removeMessage(ctx, evt)

	if err := s.platform.SendDirect(ctx, evt.UserID, notice); err != nil {
		if errors.Is(err, platform.ErrDeliveryRefused) {
			if err := s.platform.SendTemporaryMessage(ctx, evt.ChannelID, notice, channelNoticeTTL); err != nil {
				s.logger.Debugw("channel notice failed", "tenant_id", tenantID, "error", err)
			}
			return
		}
		s.logger.Debugw("gate notice failed", "tenant_id", tenantID, "user_id", evt.UserID, "error", err)
	}
}

func (s *Service) removeMessage(ctx context.Context, evt MessageEvent) {
	if evt.MessageID == "" {
		return
	}
	if err := s.platform.DeleteMessage(ctx, evt.ChannelID, evt.MessageID); err != nil {
		s.logger.Debugw("message cleanup failed",
			"channel_id", evt.ChannelID, "message_id", evt.MessageID, "error", err)
	}
}
