// Package api hosts the HTTP server, middleware, and handlers of the bridge.
// Notable routes:
//   - POST /api/upload accepts a workbook and submits its URLs as a job.
//   - GET /api/status/{taskId} forwards the task service's status document.
//   - GET /api/download/{taskId} returns a completed job's results as xlsx.
//   - GET /api/template returns the static import template.
//   - GET /healthz, /readyz and /metrics for probes and Prometheus scraping.
package api
