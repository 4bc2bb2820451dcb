// Package metrics records skew distributions and run counters in a
// Prometheus registry and reads runtime memory statistics.
package metrics
