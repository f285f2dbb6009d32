package main

import (
	"github.com/planetary-society/usaspending-orm-sub000/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version, buildTime)
	cmd.Execute()
}
