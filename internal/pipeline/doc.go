// Package pipeline implements the Markdown-to-page stages around the image
// rewrite:
//   - Markdown to HTML fragment conversion via Goldmark, with the first H1
//     captured as the page title
//   - Page templating (html/template) that wraps a fragment in a document
//   - Inline <style> and <script> injection, idempotent per resource name
//
// The image rewrite itself lives in internal/lightbox and runs between
// templating and injection.
package pipeline
