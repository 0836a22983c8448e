// Command verity runs step-driven acceptance scenarios.
package main

import (
	"os"

	"github.com/AbdelazizMoustafa10m/verity/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
