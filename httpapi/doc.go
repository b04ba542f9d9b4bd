// Package httpapi exposes the search pipeline and project storage over
// HTTP. Handlers are thin: requests are decoded into domain values,
// handed to the orchestrator or a repository, and the result is encoded
// as a JSON envelope. All routes live under /api with a permissive CORS
// policy for browser dashboards.
package httpapi
