// cubestate - CLI for cube states, coordinates and move transition tables.
package main

import (
	"github.com/SeamusWaldron/cubestate/internal/cli"
)

func main() {
	cli.Execute()
}
