// Package api embeds the OpenAPI document for the ADIBUS fleet API.
// The HTTP server serves it at /openapi.yaml.
package api

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time,
// so the published document always ships with the binary that serves it.
//
//go:embed openapi.yaml
var OpenAPI []byte
