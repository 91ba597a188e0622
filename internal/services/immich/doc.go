// Package immich talks to the Immich photo server HTTP API.
//
// Requests are authenticated with the x-api-key header. The client covers the
// two endpoints the fetch pipeline needs, album metadata and original asset
// download, plus a ping used by preflight checks.
package immich
