// gowa is a CLI client for the WA binary chat protocol.
package main

import (
	"github.com/dantte-lp/gowa/cmd/gowa/commands"
)

func main() {
	commands.Execute()
}
