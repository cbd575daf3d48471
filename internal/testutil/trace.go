package testutil

import (
	"github.com/corvid-labs/stanza/internal/asset"
)

// Trace projects events onto their deterministic fields. Event ids
// are random per run and are dropped, matching what the content hash
// covers, so the same scenario always yields a byte-identical trace.
func Trace(events []asset.Event) asset.Arr {
	out := make(asset.Arr, 0, len(events))
	for _, ev := range events {
		out = append(out, asset.Obj{
			"seq":     asset.Int(ev.Seq),
			"kind":    asset.Str(string(ev.Kind)),
			"actor":   asset.Str(string(ev.Actor)),
			"payload": ev.Payload,
		})
	}
	return out
}

// CanonicalTrace renders the projected trace as canonical JSON,
// suitable for golden comparison.
func CanonicalTrace(events []asset.Event) ([]byte, error) {
	return asset.MarshalCanonical(Trace(events))
}
