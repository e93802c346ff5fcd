package relay

import (
	"fmt"
	"strings"

	"github.com/lingorelay/lingorelay/internal/domain/achievement"
	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/shared/biztime"
)

func verificationNotice() string {
	return "Your message was not relayed because you haven't verified yet. " +
		"Run the verify command in this server to start relaying your messages."
}

func immersionDisabledNotice() string {
	return "Message relay is turned off for you in this server. " +
		"Re-enable immersion to have your messages translated again."
}

func banNotice(b *moderation.Ban) string {
	if b.ExpiresAt() == nil {
		return fmt.Sprintf("You are banned from the relay in this server. Reason: %s", reasonOrDefault(b.Reason()))
	}
	return fmt.Sprintf("You are banned from the relay in this server until %s. Reason: %s",
		b.ExpiresAt().UTC().Format("2006-01-02 15:04 MST"), reasonOrDefault(b.Reason()))
}

func userLimitNotice(usage, limit int64) string {
	return fmt.Sprintf("Your message was not relayed: it would put you over your monthly "+
		"character budget (%d of %d used). The counter resets on %s.",
		usage, limit, biztime.FormatDate(biztime.NextMonthStart(biztime.NowUTC())))
}

func tenantLimitNotice(usage, limit int64) string {
	return fmt.Sprintf("Your message was not relayed: this server has used its monthly "+
		"translation budget (%d of %d characters). The counter resets on %s.",
		usage, limit, biztime.FormatDate(biztime.NextMonthStart(biztime.NowUTC())))
}

func budgetWarningNotice(usage, limit int64) string {
	return fmt.Sprintf("Heads up: you've used %d of your %d monthly relay characters (%.0f%%).",
		usage, limit, float64(usage)/float64(limit)*100)
}

func achievementNotice(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if def, ok := achievement.ByID(id); ok {
			names = append(names, def.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	if len(names) == 1 {
		return fmt.Sprintf("Achievement unlocked: %s!", names[0])
	}
	return fmt.Sprintf("Achievements unlocked: %s!", strings.Join(names, ", "))
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "not given"
	}
	return reason
}
