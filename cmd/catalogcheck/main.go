// Command catalogcheck validates the question and career catalogs and
// previews the recommendations they produce.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
