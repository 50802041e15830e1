// Package schemas embeds the JSON Schemas that describe request bodies and
// import files.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
