// Package server provides HTTP routing, middleware, and report endpoints for the local viewer.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] is the only middleware shipped by default; it records each request's method, path, status, and duration.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// [BasicRouter.Static] mounts a directory of exported artifacts under a URL prefix.
//
// # Report Endpoints
//
// [ReportHandler] serves the duplicate report: "/" renders the standalone HTML page and
// "/api/report" returns the raw JSON payload. The export file is re-read on every request,
// so rerunning a scan shows fresh results on the next browser refresh without restarting the server.
//
// [HistoryHandler] exposes recorded scans: "/api/scans" lists recent runs newest first and
// "/api/scans/{id}" returns one run together with its stored duplicate groups.
//
// # Current Usage
//
// The serve command wires both handlers into a [BasicRouter] on localhost, mounts the
// output directory under "/files/", and blocks until interrupted.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
