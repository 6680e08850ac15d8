// Package prompt loads the prompt templates sent to the generation backend.
//
// Templates are Markdown files with optional YAML frontmatter. They are
// resolved by name from the project (.contentbot/templates), then the user
// config directory, then the built-in set. Placeholders use {{name}} and
// are replaced verbatim by Render.
package prompt
