// Command ggrep forwards os.Args straight to cli.Run and exits with
// the status Run returns.
package main

import (
	"os"

	"github.com/oss-mirror/ggrep/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
