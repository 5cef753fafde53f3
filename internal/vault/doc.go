// Package vault implements bdev's password-protected secret store.
//
// A vault lives in a single directory holding two files:
//
//   - proof: the KDF salt and a SHA-256 digest of the derived key, used to
//     reject a wrong password before any decryption is attempted
//   - payload: the JSON encoded secret map, sealed with NaCl secretbox and
//     base64 encoded
//
// The password and the derived key are never written to disk. Every new
// process starts Locked; Unlock derives the key again with Argon2id.
//
// # Corrupt payloads
//
// Unlock never fails hard on an unreadable payload. The vault ends up
// Unlocked with an empty store, the damaged file is copied aside as
// payload.corrupt-<timestamp>, and Unlock returns an error matching
// errors.ErrCorruptPayload so callers can tell "empty" from "corrupted".
//
// # Known limitations
//
// There is no cross-process locking. Two bdev processes writing the same
// vault race, and the last full payload write wins.
package vault
