package main

import (
	"github.com/webdevtodayjason/bookpeek/cmd"
)

// execute is indirected for testing.
var execute = cmd.Execute

func main() {
	execute()
}
