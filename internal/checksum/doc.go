// Package checksum fingerprints generated artifacts.
//
// Two fingerprints exist: Raw hashes content byte-for-byte, Normalized
// hashes content with SQL comments stripped and whitespace collapsed.
// Every generator embeds its single mutable field, the generation
// timestamp, inside a comment, so the normalized fingerprint of an artifact
// is stable across regenerations by construction. The consistency verifier
// uses this as a cheap equality check before computing a full diff, and the
// metadata artifact records the normalized fingerprint of the source
// manifest.
package checksum
