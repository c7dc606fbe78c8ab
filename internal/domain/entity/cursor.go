package entity

import "time"

// TimestampCursorThreshold separates the two meanings of a legacy cursor:
// values above it are unix timestamps, values at or below it are message ids.
const TimestampCursorThreshold int64 = 2_000_000_000

// Cursor selects messages after a known id and/or after a creation second.
type Cursor struct {
	AfterID   int64
	AfterTime time.Time
}

// LegacyCursor interprets a single numeric cursor value.
func LegacyCursor(value int64) Cursor {
	if value > TimestampCursorThreshold {
		return Cursor{AfterTime: time.Unix(value, 0)}
	}
	if value < 0 {
		value = 0
	}
	return Cursor{AfterID: value}
}

// Includes reports whether m lies strictly after the cursor.
func (c Cursor) Includes(m *Message) bool {
	if m.ID <= c.AfterID {
		return false
	}
	if !c.AfterTime.IsZero() && m.CreatedAt.Unix() <= c.AfterTime.Unix() {
		return false
	}
	return true
}
