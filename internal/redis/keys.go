package redis

const (
	keyPrefix = "lyricsearch:"
	totalsKey = keyPrefix + "totals"
	limitKey  = keyPrefix + "limit"
)

// usageKey is the hash holding per-user lookup counts for one day.
func usageKey(day string) string {
	return keyPrefix + "usage:" + day
}
