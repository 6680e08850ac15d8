// Package publish persists a finished social draft.
//
// A run produces one Draft and hands it to a list of publishers:
//
//   - FileWriter writes out/draft_YYYY-MM-DD.md and a JSON record beside it
//   - IssuePublisher opens a GitHub issue labeled content-draft and social-media
//   - MongoArchive inserts the JSON record into a MongoDB collection
//
// Example markdown output:
//
//	# Social Media Draft - 2026-10-16
//
//	## Twitter/X Version
//	Shipped faster builds 🚀 #coding
//
//	## LinkedIn Version
//	This week we cut build times in half...
//
//	---
//
//	## Source Commits (2 total)
//	- [2026-10-15] Speed up builds ([view](https://github.com/acme/app/commit/abc123))
//	- [2026-10-14] Fix cache key ([view](https://github.com/acme/app/commit/def456))
//
// Files for the same day overwrite each other.
package publish
