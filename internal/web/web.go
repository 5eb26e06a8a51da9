// Package web implements an HTMX-based web application mirroring the TUI functionality.
//
// # HTMX Web Application Implementation Plan
//
// # Architecture
//
// The web app replicates the four-view review workflow using server-side rendering
// with HTMX for dynamic updates. Each view corresponds to a template and handler:
//
//  1. Report Index: Server-rendered group tables with hx-get for member detail
//  2. Group Detail: HTMX partial swap showing member tracks + mark button
//  3. Allowlist Confirm: Modal confirmation with hx-post trigger
//  4. Saved Summary: Entry count with link back to the report
//
// Core Components
//
//   - HTTP Server: the BasicRouter and logging middleware from internal/server
//   - Report Loading: formatter.ReadReport on every request, same as the JSON API
//   - Allowlist Persistence: allowlist.Load/Save against the output directory
//   - History Integration: ScanRepository rows rendered as a browsable table
//
// Routes
//
//	GET  /                    → Report index (exists today as a static render)
//	GET  /groups/{kind}/{key} → HTMX partial: member track table
//	POST /allowlist/toggle    → Flip one group's mark, return the updated row
//	POST /allowlist/save      → Persist marks, return saved summary
//	GET  /history             → Scan history table from SQLite
//	GET  /history/{id}        → Stored groups for one past scan
//
// Templates
//
//   - base.html: Layout with totals header and navigation
//   - report.html: Group tables with hx-get on rows
//   - group.html: Partial template for member tracks
//   - history.html: Sequence-ordered scan rows
//   - saved.html: Entry count and allowlist path
//
// # State Management
//
// Unlike the TUI's in-memory marks, the web app holds no per-session state:
//   - Allowlist file: The single source of truth for marks, re-read per request
//   - Scan records: Past runs and their stored groups, served from SQLite
//   - No cookies or sessions: the viewer binds to localhost for a single user
//
// # Probe Streaming
//
// Location probing during evaluation uses Server-Sent Events:
//  1. POST /evaluate starts a probe run, returns a run ID
//  2. Client opens SSE connection to /evaluate/{id}/stream
//  3. Handler launches goroutine running DuplicateEngine.Evaluate
//  4. ProgressUpdate values from the engine channel stream as SSE events
//  5. On completion, send "done" event with the evaluation summary
//
// Dependencies
//
//   - html/template: Server-side rendering, shared with internal/formatter
//   - net/http: HTTP server and SSE
//   - internal/server: Router, logging middleware, static file mounts
//
// Implementation Tasks
//
//  1. Template structure with HTMX integration
//  2. Group detail handler (HTMX partial)
//  3. Toggle endpoint rewriting the allowlist file atomically
//  4. Save endpoint reusing the TUI's merge semantics
//  5. History handlers over ScanRepository
//  6. SSE handler streaming probe results
//  7. Error handling and validation
//
// # Testing Strategy
//
// Use httptest:
//   - Fixture reports written to a temp dir
//   - In-memory SQLite for history rows
//   - Validate HTMX headers and response structure
//   - Test SSE stream formatting
package web
