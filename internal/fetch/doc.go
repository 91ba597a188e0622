// Package fetch orchestrates sequential album downloads from Immich into the
// staging directory, consulting the download manifest to resume interrupted
// runs.
package fetch
