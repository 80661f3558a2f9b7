// Package gamedata provides the embedded item, enemy and room catalogs.
package gamedata

import "embed"

// dataFS embeds the JSON catalogs and the YAML room table at build time.
//
//go:embed *.json *.yaml
var dataFS embed.FS
