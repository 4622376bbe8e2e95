// Package config reads the lending tracker configuration from the environment
// and creates the database connections and OpenTelemetry providers from it.
//
// Variables are read with caarlos0/env after .env.local and .env were loaded with godotenv.
// Variables which are already set are never overwritten by a file.
//
// This package is part of the shell (infrastructure) layer.
package config
