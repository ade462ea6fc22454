// Package observability records what the tracker does as structured JSON
// Lines events and derives usage metrics from them on demand.
package observability
