package main

import (
	"log"

	"github.com/probekit/go-landmark-instrumentation/cmd"
)

func main() {
	log.Default().SetFlags(0)
	cmd.Execute()
}
