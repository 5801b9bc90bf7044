package main

import (
	"os"

	"mateina/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
