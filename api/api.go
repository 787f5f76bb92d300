// Package api embeds the OpenAPI document of the escrow HTTP surface.
package api

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen --config=oapi-codegen.yml openapi.yml

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte
