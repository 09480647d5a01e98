// Package jwt issues the short-lived session token handed out after a phone
// has been proven with an OTP.
//
// It includes:
//   - Claims carrying the verified E.164 phone and the OTP purpose.
//   - An HS512 implementation whose validity window follows an injected clock.
//   - Context helpers for storing and retrieving authenticated claims.
package jwt
