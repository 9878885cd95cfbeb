package main

import (
	"github.com/factorgo/factorgo/internal/cli"
)

func main() {
	cli.Run()
}
