package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTrace prefixes every trace fingerprint. The version suffix allows
// the encoding to change without colliding with old fingerprints.
const DomainTrace = "enigma/trace/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a stable hex digest of events.
// Two traces have the same fingerprint iff their canonical JSON is identical.
func Fingerprint(events []Event) (string, error) {
	data, err := MarshalCanonical(Objects(events))
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainTrace, data), nil
}
