package metrics

import "time"

// Noop discards all recordings. Default when no recorder is configured.
type Noop struct{}

func (Noop) IncCounter(string, map[string]string)                    {}
func (Noop) ObserveLatency(string, time.Duration, map[string]string) {}
