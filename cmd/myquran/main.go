package main

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/myquran/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ myquran: %v\n", err)
		os.Exit(1)
	}
}
