// Package timeouts defines shared timeout constants used across the service.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// Generate caps a single generative-text call for a chat reply or tip.
const Generate = 20 * time.Second

// LocaleReload is the debounce window between an override file change and
// the catalog reload it triggers.
const LocaleReload = 250 * time.Millisecond
