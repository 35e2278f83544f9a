package demo_configs

import (
	"embed"
)

// FS provides embedded default scenario YAMLs for external usage.
//
//go:embed *.yaml
var FS embed.FS
