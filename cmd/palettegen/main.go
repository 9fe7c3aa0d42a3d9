// palettegen extracts a weighted colour palette from an image.
package main

import (
	"os"

	"github.com/Dangoware/palettegen/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
