package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyLeagueSettings caches the parsed settings for a league.
func (kb *KeyBuilder) KeyLeagueSettings(leagueID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyLeagueSettings, leagueID))
}

// KeyWaiverLock serializes waiver batch processing per league.
func (kb *KeyBuilder) KeyWaiverLock(leagueID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyWaiverLock, leagueID))
}

// KeyTradeTally caches the current veto tally for a trade.
func (kb *KeyBuilder) KeyTradeTally(tradeID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyTradeTally, tradeID))
}

// KeyIdempotency guards duplicate request submissions.
func (kb *KeyBuilder) KeyIdempotency(token string) string {
	return kb.BuildKey(fmt.Sprintf(KeyIdempotency, token))
}

// KeyNotifyChannel is the pub/sub channel for a user's notifications.
func (kb *KeyBuilder) KeyNotifyChannel(userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyNotifyChannel, userID))
}
