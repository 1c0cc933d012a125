// Package main is the entry point for the balkana CLI, which records
// tournament series and aggregates per-player series statistics.
package main

import "github.com/BalkanaOrg/Balkana-sub000/cmd"

func main() {
	cmd.Execute()
}
