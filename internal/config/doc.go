// Package config loads and validates the application configuration from
// environment variables, honoring both the FAQ_-prefixed keys and the
// platform-provided names (DATABASE_URL, POSTGRES_*, SECRET_KEY, ...)
// that Railway injects into the container.
package config
