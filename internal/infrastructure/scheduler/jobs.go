package scheduler

import (
	"context"
	"time"

	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/domain/usage"
	"github.com/lingorelay/lingorelay/internal/shared/biztime"
)

// BanExpirySweepJob flips every expired active ban across tenants.
type BanExpirySweepJob struct {
	repo moderation.Repository
	now  func() time.Time
}

func NewBanExpirySweepJob(repo moderation.Repository) *BanExpirySweepJob {
	return &BanExpirySweepJob{repo: repo, now: biztime.NowUTC}
}

func (j *BanExpirySweepJob) Execute(ctx context.Context) (int64, error) {
	return j.repo.DeactivateAllExpired(ctx, j.now())
}

// UsageLogRetentionJob prunes ledger entries older than the retention window.
type UsageLogRetentionJob struct {
	repo          usage.Repository
	retentionDays int
	now           func() time.Time
}

func NewUsageLogRetentionJob(repo usage.Repository, retentionDays int) *UsageLogRetentionJob {
	if retentionDays <= 0 {
		retentionDays = 400
	}
	return &UsageLogRetentionJob{repo: repo, retentionDays: retentionDays, now: biztime.NowUTC}
}

func (j *UsageLogRetentionJob) Execute(ctx context.Context) (int64, error) {
	cutoff := j.now().AddDate(0, 0, -j.retentionDays)
	return j.repo.DeleteOlderThan(ctx, cutoff)
}
