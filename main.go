// Package main is the entry point for the recap application.
package main

import (
	"github.com/recap-cli/recap/cmd"
	"github.com/recap-cli/recap/config"
	"github.com/recap-cli/recap/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
