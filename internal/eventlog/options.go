package eventlog

import "time"

// IDGenerator produces globally unique identifiers.
type IDGenerator interface {
	Generate() string
}

type options struct {
	vaultID string
	now     func() time.Time
	ids     IDGenerator
}

// Option configures Open.
type Option func(*options)

// WithVaultID joins an existing vault: a freshly created identity takes this
// vault id, and an existing identity must match it.
func WithVaultID(id string) Option {
	return func(o *options) { o.vaultID = id }
}

// WithNow replaces the wall clock used to stamp appended events.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the UUID v7 generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(o *options) { o.ids = ids }
}
