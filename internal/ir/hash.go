package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainMIR      = "cjsongen/mir/v1"
	DomainArtifact = "cjsongen/artifact/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the content-addressed identity of a normalized
// struct. Two structs share a fingerprint iff they have the same name,
// field names, field order, and value shapes.
func Fingerprint(s Struct) (string, error) {
	canonical, err := MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMIR, canonical), nil
}

// ArtifactKey identifies generated output: the struct fingerprint plus the
// generator settings that affect the text.
func ArtifactKey(fingerprint string, settings map[string]any) (string, error) {
	obj := map[string]any{
		"fingerprint":       fingerprint,
		"generator_version": GeneratorVersion,
		"settings":          settings,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ArtifactKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainArtifact, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprint(s Struct) string {
	fp, err := Fingerprint(s)
	if err != nil {
		panic(err)
	}
	return fp
}
