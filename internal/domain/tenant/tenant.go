package tenant

import (
	"errors"
	"time"

	"github.com/lingorelay/lingorelay/internal/domain/plan"
	"github.com/lingorelay/lingorelay/internal/shared/biztime"
)

var (
	ErrEmptySpaceID      = errors.New("platform space ID cannot be empty")
	ErrChannelNotMapped  = errors.New("channel is not mapped to a language")
	ErrLanguageNotMapped = errors.New("language is not mapped to a channel")
)

// ChannelMapping binds one language to one channel of the tenant's space,
// together with the webhook credential used to deliver into that channel.
type ChannelMapping struct {
	Language     Language
	ChannelID    string
	WebhookID    string
	WebhookToken string
	Enabled      bool
}

// Tenant is one communication space with its own channel-language table,
// subscription tier and monthly usage budget.
type Tenant struct {
	id             uint
	spaceID        string
	name           string
	tier           plan.Tier
	logChannelID   string
	monthlyUsage   int64
	usageResetDate time.Time
	channels       []ChannelMapping
	createdAt      time.Time
	updatedAt      time.Time
}

// NewTenant creates a tenant for a platform space with an empty channel table.
func NewTenant(spaceID, name string, tier plan.Tier, now time.Time) (*Tenant, error) {
	if spaceID == "" {
		return nil, ErrEmptySpaceID
	}
	return &Tenant{
		spaceID:        spaceID,
		name:           name,
		tier:           tier,
		monthlyUsage:   0,
		usageResetDate: biztime.StartOfMonth(now),
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructTenant rebuilds a tenant from persisted state.
func ReconstructTenant(
	id uint,
	spaceID string,
	name string,
	tier plan.Tier,
	logChannelID string,
	monthlyUsage int64,
	usageResetDate time.Time,
	channels []ChannelMapping,
	createdAt time.Time,
	updatedAt time.Time,
) (*Tenant, error) {
	if id == 0 {
		return nil, errors.New("tenant ID cannot be zero")
	}
	if spaceID == "" {
		return nil, ErrEmptySpaceID
	}
	return &Tenant{
		id:             id,
		spaceID:        spaceID,
		name:           name,
		tier:           tier,
		logChannelID:   logChannelID,
		monthlyUsage:   monthlyUsage,
		usageResetDate: usageResetDate,
		channels:       channels,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

// ChannelLanguage resolves a channel ID to its enabled language mapping.
// The second return value is false for unmonitored or disabled channels.
func (t *Tenant) ChannelLanguage(channelID string) (Language, bool) {
	for _, m := range t.channels {
		if m.ChannelID == channelID && m.Enabled {
			return m.Language, true
		}
	}
	return "", false
}

// TargetMappings returns the enabled channel mappings excluding the source
// language, i.e. the fan-out destinations for a message posted in source.
func (t *Tenant) TargetMappings(source Language) []ChannelMapping {
	targets := make([]ChannelMapping, 0, len(t.channels))
	for _, m := range t.channels {
		if m.Enabled && m.Language != source {
			targets = append(targets, m)
		}
	}
	return targets
}

// SetChannel adds or replaces the mapping for a language.
func (t *Tenant) SetChannel(m ChannelMapping) {
	for i := range t.channels {
		if t.channels[i].Language == m.Language {
			t.channels[i] = m
			t.updatedAt = time.Now().UTC()
			return
		}
	}
	t.channels = append(t.channels, m)
	t.updatedAt = time.Now().UTC()
}

// DisableChannel marks a language's channel as disabled without dropping
// the mapping. Returns ErrLanguageNotMapped when the language is unknown.
func (t *Tenant) DisableChannel(lang Language) error {
	for i := range t.channels {
		if t.channels[i].Language == lang {
			t.channels[i].Enabled = false
			t.updatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrLanguageNotMapped
}

// ClearWebhook drops the webhook credential of a language mapping, forcing
// reprovisioning on the next delivery attempt.
func (t *Tenant) ClearWebhook(lang Language) error {
	for i := range t.channels {
		if t.channels[i].Language == lang {
			t.channels[i].WebhookID = ""
			t.channels[i].WebhookToken = ""
			t.updatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrLanguageNotMapped
}

// RolloverIfDue resets the monthly usage counter when now has crossed into
// a later month than the recorded reset date. The reset date always lands
// on the first day of the month containing now, so a second event in the
// same month is a no-op. Returns true when a rollover happened.
func (t *Tenant) RolloverIfDue(now time.Time) bool {
	if biztime.SameMonth(now, t.usageResetDate) || now.Before(t.usageResetDate) {
		return false
	}
	t.monthlyUsage = 0
	t.usageResetDate = biztime.StartOfMonth(now)
	t.updatedAt = now.UTC()
	return true
}

// AddUsage increments the tenant's monthly character counter.
func (t *Tenant) AddUsage(chars int64) {
	t.monthlyUsage += chars
	t.updatedAt = time.Now().UTC()
}

// CharacterLimit returns the tenant tier's monthly character budget.
func (t *Tenant) CharacterLimit() int64 {
	return t.tier.MonthlyCharacterLimit()
}

func (t *Tenant) SetTier(tier plan.Tier) {
	t.tier = tier
	t.updatedAt = time.Now().UTC()
}

func (t *Tenant) SetLogChannel(channelID string) {
	t.logChannelID = channelID
	t.updatedAt = time.Now().UTC()
}

func (t *Tenant) ID() uint                  { return t.id }
func (t *Tenant) SpaceID() string           { return t.spaceID }
func (t *Tenant) Name() string              { return t.name }
func (t *Tenant) Tier() plan.Tier           { return t.tier }
func (t *Tenant) LogChannelID() string      { return t.logChannelID }
func (t *Tenant) MonthlyUsage() int64       { return t.monthlyUsage }
func (t *Tenant) UsageResetDate() time.Time { return t.usageResetDate }
func (t *Tenant) Channels() []ChannelMapping {
	out := make([]ChannelMapping, len(t.channels))
	copy(out, t.channels)
	return out
}
func (t *Tenant) CreatedAt() time.Time { return t.createdAt }
func (t *Tenant) UpdatedAt() time.Time { return t.updatedAt }

func (t *Tenant) SetID(id uint) error {
	if id == 0 {
		return errors.New("tenant ID cannot be zero")
	}
	t.id = id
	return nil
}
