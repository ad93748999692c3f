package main

import "github.com/forgeservicelab/forge.combined-log-parser/internal/cmd"

func main() {
	cmd.Execute()
}
