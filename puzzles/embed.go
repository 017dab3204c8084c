package puzzles

import "embed"

// Builtin holds the puzzle pack shipped with the binary.
//
//go:embed *.yaml
var Builtin embed.FS
