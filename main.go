// main.go
//
// Minimal entry point that delegates CLI handling to the Cobra root command in cmd/root.go

package main

import (
	"github.com/vishnu190806/emergency-supply-chain-management-system/cmd"
)

func main() {
	cmd.Execute()
}
