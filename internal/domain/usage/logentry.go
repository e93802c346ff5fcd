// Package usage holds the append-only relay ledger. One entry is written
// per successful relay; the pipeline never mutates or deletes entries.
package usage

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrZeroTenantID = errors.New("tenant ID cannot be zero")
	ErrEmptyUserID  = errors.New("user ID cannot be empty")
	ErrNoTargets    = errors.New("log entry requires at least one target language")
)

// LogEntry is one successful relay: who, where, and what it cost.
type LogEntry struct {
	id              uint
	tenantID        uint
	userID          string
	sourceLanguage  string
	targetLanguages string
	characterCost   int64
	createdAt       time.Time
}

// NewLogEntry creates a ledger entry. Target languages are stored
// comma-joined in delivery order.
func NewLogEntry(tenantID uint, userID, sourceLanguage string, targetLanguages []string, characterCost int64, now time.Time) (*LogEntry, error) {
	if tenantID == 0 {
		return nil, ErrZeroTenantID
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if len(targetLanguages) == 0 {
		return nil, ErrNoTargets
	}
	return &LogEntry{
		tenantID:        tenantID,
		userID:          userID,
		sourceLanguage:  sourceLanguage,
		targetLanguages: strings.Join(targetLanguages, ","),
		characterCost:   characterCost,
		createdAt:       now,
	}, nil
}

// ReconstructLogEntry rebuilds an entry from persisted state.
func ReconstructLogEntry(
	id uint,
	tenantID uint,
	userID string,
	sourceLanguage string,
	targetLanguages string,
	characterCost int64,
	createdAt time.Time,
) (*LogEntry, error) {
	if id == 0 {
		return nil, errors.New("log entry ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, ErrZeroTenantID
	}
	return &LogEntry{
		id:              id,
		tenantID:        tenantID,
		userID:          userID,
		sourceLanguage:  sourceLanguage,
		targetLanguages: targetLanguages,
		characterCost:   characterCost,
		createdAt:       createdAt,
	}, nil
}

func (e *LogEntry) ID() uint                { return e.id }
func (e *LogEntry) TenantID() uint          { return e.tenantID }
func (e *LogEntry) UserID() string          { return e.userID }
func (e *LogEntry) SourceLanguage() string  { return e.sourceLanguage }
func (e *LogEntry) TargetLanguages() string { return e.targetLanguages }
func (e *LogEntry) CharacterCost() int64    { return e.characterCost }
func (e *LogEntry) CreatedAt() time.Time    { return e.createdAt }

func (e *LogEntry) SetID(id uint) error {
	if id == 0 {
		return errors.New("log entry ID cannot be zero")
	}
	e.id = id
	return nil
}
