// Package server exposes the scan engine over HTTP using gin.
//
// Routes:
//
//	POST /api/scan   run a scan for {websiteUrl, businessName, location, socialHandles}
//	GET  /api/scan   describe the API
//	GET  /healthz    liveness check
//	GET  /metrics    Prometheus metrics
package server
