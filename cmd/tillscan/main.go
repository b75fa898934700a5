package main

import (
	"github.com/tillscan/tillscan/cmd/tillscan/cmd"
)

func main() {
	cmd.Execute()
}
