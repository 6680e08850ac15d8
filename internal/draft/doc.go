// Package draft turns commits into a short-form (Twitter/X) and long-form
// (LinkedIn) post.
//
// Generation has two paths. The backed path renders a prompt from the new
// and older commits, sends it to a Completer and parses the free-form
// reply with ParseResponse. When no backend is configured, the call fails,
// or the reply yields an empty field, the caller falls back to Fallback,
// which needs nothing but the commits themselves.
//
// Both fields are bounded by MaxShort and MaxLong, counted in characters.
package draft
