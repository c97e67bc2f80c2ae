// Package security provides the cross-cutting security plumbing for the
// native-apps core: audit logging with PII protection, request ID
// generation and propagation, hardened response headers, and per-address
// rate limiting of repeated security decisions.
package security
