// Package schemas embeds the JSON schemas for published events and
// loaded datasets.
package schemas

import "embed"

//go:embed events datasets
var SchemasFS embed.FS
