package types

import "time"

// Metadata is the lifecycle block carried by use cases, scenarios, and
// actors: creation and update timestamps plus a monotonic version counter.
// Timestamps are stored in UTC at full precision; TOML datetimes carry
// fractional seconds, so serialised records round-trip exactly.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// NewMetadata returns a metadata block stamped with the current time and
// version 1.
func NewMetadata() Metadata {
	now := time.Now().UTC()
	return Metadata{CreatedAt: now, UpdatedAt: now, Version: 1}
}

// Touch records a mutation: it bumps the version counter and advances the
// update timestamp. The timestamp always moves strictly forward, even
// when the clock has not advanced past the previous stamp.
func (m *Metadata) Touch() {
	now := time.Now().UTC()
	if !now.After(m.UpdatedAt) {
		now = m.UpdatedAt.Add(time.Nanosecond)
	}
	m.UpdatedAt = now
	m.Version++
}
