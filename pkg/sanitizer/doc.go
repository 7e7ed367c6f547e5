// Package sanitizer normalizes free-form input before it is validated and
// stored.
//
// All functions are idempotent. Invalid input is returned trimmed rather than
// rejected; rejecting is the validator's job.
//
// Normalization includes:
//   - Phone numbers: E.164 when the number parses for a supported region
//   - Emails: trimmed and lowercased
//   - Strings: collapsed whitespace, trimmed
//   - Slices: duplicates and empty values removed after normalization
//   - Search terms: regex metacharacters escaped for substring matching
package sanitizer
