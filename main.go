package main

import (
	"os"

	"github.com/ddlforge/ddlforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
