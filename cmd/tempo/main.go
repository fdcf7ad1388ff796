package main

import (
	"os"

	"github.com/llehouerou/tempo/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
