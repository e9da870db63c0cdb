// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anthonysnyder/backgroundarr/internal/buildinfo"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backgroundarr",
		Short: "Artwork manager for media libraries",
		Long:  "backgroundarr finds, downloads, and caches posters, backdrops, and logos for the movie and TV directories on your media shares.",
	}

	rootCmd.AddCommand(RunServeCommand())
	rootCmd.AddCommand(RunVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func RunVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Print(buildinfo.String())
		},
	}
}
