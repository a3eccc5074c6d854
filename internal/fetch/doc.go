// Package fetch downloads spectroscopy catalog data from the upstream JPL
// and CDMS archives and assembles it into catalog entries.
//
// Each upstream service is a Source: it lists its substance directory, then
// serves one fixed-format line file per substance. The Orchestrator fans the
// per-substance requests out over a bounded worker pool, retries transient
// network failures with backoff, skips substances that fail permanently, and
// reports progress after every completed substance. Cancelling the context
// stops the fetch cooperatively: entries collected so far are returned with
// the Cancelled flag set, never discarded.
package fetch
