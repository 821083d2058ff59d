package config

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// Identity derives the cache identity digest for a configuration. Only the
// fields that determine upstream content participate; cosmetic fields (name,
// blacklist, rails, image templates) never invalidate a cached catalog.
// The curated fields are serialized through a map so keys are emitted in
// lexicographic order regardless of struct declaration order.
func Identity(s Settings) string {
	curated := map[string]any{
		"mode":           string(s.Provider.Mode),
		"playlistUrl":    s.Provider.PlaylistURL,
		"epgUrl":         s.Provider.EPGURL,
		"xtreamHost":     s.Provider.XtreamHost,
		"xtreamUsername": s.Provider.XtreamUsername,
		"epgEnabled":     s.Provider.EPGEnabled,
		"hourOffset":     s.Provider.HourOffset,
		"includeSeries":  s.Provider.IncludeSeries,
	}
	data, err := json.Marshal(curated)
	if err != nil {
		// Marshaling a map of scalars cannot fail; keep a stable fallback anyway.
		data = []byte(s.Provider.PlaylistURL + s.Provider.XtreamHost)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
