package asset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed hashing. The version suffix
// leaves room for algorithm migration without ambiguity.
const (
	DomainEvent    = "stanza/event/v1"
	DomainDocument = "stanza/document/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data). The null
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EventHash computes the content-addressed hash of an event. The
// event's uuid is excluded: the hash identifies WHAT happened (kind,
// actor, payload, position), while the uuid is mint-time randomness
// used only as a storage key.
func (e Event) Hash() (string, error) {
	obj := Obj{
		"seq":     Int(e.Seq),
		"kind":    Str(string(e.Kind)),
		"actor":   Str(string(e.Actor)),
		"payload": e.Payload,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("event hash: %w", err)
	}
	return hashWithDomain(DomainEvent, canonical), nil
}

// DocumentHash computes the content-addressed hash of canonical
// document bytes. Exposed for audit: two documents hash equal exactly
// when their rendered content is byte-identical.
func DocumentHash(canonical []byte) string {
	return hashWithDomain(DomainDocument, canonical)
}
