package shared

import "time"

// NowMillis returns the current wall-clock time in Unix milliseconds.
// The cache and store both timestamp records this way so the two
// subsystems agree on "now" without sharing a clock object.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// ExpiryFor computes the absolute expiration time for a record created
// at createdAtMs with the given ttlSeconds. A ttlSeconds of 0 means
// "never expires"; the returned ok is false in that case and
// expiresAtMs should be discarded.
func ExpiryFor(createdAtMs int64, ttlSeconds int64) (expiresAtMs int64, ok bool) {
	if ttlSeconds <= 0 {
		return 0, false
	}
	return createdAtMs + ttlSeconds*1000, true
}

// IsExpired reports whether expiresAtMs (as returned by ExpiryFor) has
// passed relative to nowMs. Call sites that have no expiry (ok==false
// from ExpiryFor) should never call this.
func IsExpired(expiresAtMs int64, nowMs int64) bool {
	return nowMs >= expiresAtMs
}
