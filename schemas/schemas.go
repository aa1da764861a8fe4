// Package schemas embeds the JSON schemas of the events the service publishes.
// A schema lives at events/<event-name>/v<version>.json.
package schemas

import "embed"

//go:embed events
var SchemasFS embed.FS
