package main

import (
	"os"

	"github.com/woojinnn/gluesql/cmd"
)

func main() {
	if cmd.Execute() != nil {
		os.Exit(1)
	}
}
