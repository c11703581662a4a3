// Package metrics records request and payment counters behind a small
// interface so callers never depend on prometheus directly.
package metrics

import "time"

// Recorder records operational events.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
