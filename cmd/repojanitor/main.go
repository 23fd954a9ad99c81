package main

import (
	"fmt"
	"os"

	repojanitor "github.com/ermos/repojanitor"
)

func main() {
	if err := repojanitor.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
