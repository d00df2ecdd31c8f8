// Package mail renders the application's emails from an embedded YAML
// template catalog and delivers them over SMTP, or to the log during
// local development.
package mail
