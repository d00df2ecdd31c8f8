// Package config loads application settings with viper and validates them
// with go-playground/validator. See Load for the precedence rules.
package config
