// Package fs exposes the static assets embedded in the binary.
package fs

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
