package main

import (
	"context"
	"os"

	"github.com/kbukum/cypherstream/app"
)

func main() {
	os.Exit(app.Main(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}
