// Package config handles configuration loading, parsing, and validation
// from environment variables and optional config files. It provides
// type-safe access to the settings the dispatcher, store, and crypto
// components need while keeping configuration details separate from
// processing logic.
package config
