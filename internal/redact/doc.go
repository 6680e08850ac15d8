// Package redact scrubs secret-like tokens and company names from text
// before it is sent to a generation backend or published.
//
// Detection is pattern-based only. Every rule replaces its match with a
// fixed marker, so running Sanitize on its own output changes nothing.
package redact
