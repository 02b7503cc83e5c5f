package apitoken

import "time"

// APIToken represents a third-party access token record.
// The raw secret is never stored; TokenHash holds its SHA-256 digest.
// LegacyToken carries the plaintext of tokens issued before hashing was
// introduced and is empty for all tokens minted since.
type APIToken struct {
	ID          string
	Name        string
	TokenHash   string
	LegacyToken string
	IsActive    bool
	LastUsedAt  *time.Time
	CreatedAt   time.Time
}

// Identity is the opaque resolved caller handed to downstream stages.
// It deliberately excludes the raw and hashed credential.
type Identity struct {
	TokenID string
	Name    string
}
