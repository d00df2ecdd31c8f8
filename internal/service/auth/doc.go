// Package auth issues and validates the application's signed tokens and
// hashes passwords with bcrypt.
package auth
