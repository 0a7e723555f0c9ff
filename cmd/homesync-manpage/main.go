package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/homesync/cmd/homesync"
	"github.com/arthur-debert/homesync/internal/version"
)

func main() {
	rootCmd := homesync.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "HOMESYNC",
		Section: "1",
		Source:  "homesync " + version.Version,
		Manual:  "homesync manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
