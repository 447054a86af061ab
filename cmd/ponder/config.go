package main

import (
	"fmt"
	"os"
)

// Transports understood by serve.
const (
	transportStdio = "stdio"
	transportHTTP  = "http"
)

// config is resolved from flags, falling back to environment variables.
type config struct {
	Transport   string
	Addr        string
	DatabaseURL string
	LogLevel    string
}

func defaultConfig() config {
	return config{
		Transport:   envOr("PONDER_TRANSPORT", transportStdio),
		Addr:        envOr("PONDER_ADDR", ":8080"),
		DatabaseURL: os.Getenv("PONDER_DATABASE_URL"),
		LogLevel:    envOr("PONDER_LOG_LEVEL", "info"),
	}
}

func (c config) validate() error {
	switch c.Transport {
	case transportStdio, transportHTTP:
		return nil
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, transportStdio, transportHTTP)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
