// Package hash provides keyed digests for one-time secrets.
//
// OTP codes are stored only as digests. A database leak then does not reveal
// codes that are still valid, and verification never needs the plaintext.
package hash
