// Package config loads typed configuration structs from the process
// environment.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tag parsing). Every onboardkit package
// that needs settings owns a Config struct with env tags; the binary loads them
// through Load, optionally scoped by a prefix:
//
//	cfg, err := config.Load[file.S3Config](config.WithPrefix("EXPORT_"))
//
// The default .env file in the working directory is read once per process.
// Missing .env files are not an error.
package config
