package main

import "github.com/openvadl/lsp-release/cmd/lsp-release/cmd"

func main() {
	cmd.Execute()
}
