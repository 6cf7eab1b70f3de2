// Package lifecycle holds shared limits for component start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds each OnStart/OnStop hook, such as pinging a database or draining the HTTP server.
const DefaultTimeout = 10 * time.Second
