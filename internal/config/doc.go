// Package config loads and validates application settings from
// environment variables and optional config files, exposing them as
// typed structs so the rest of the application never touches raw
// environment access.
package config
