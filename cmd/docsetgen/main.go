// Command docsetgen manages documentation project files and generates docset
// bundles from them.
package main

import (
	"os"

	"git.home.luguber.info/inful/docsetgen/cmd/docsetgen/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], commands.NewGlobal()))
}
