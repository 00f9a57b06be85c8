//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Generate builds the CLI and saves a report for question using the
// fragments/ directory.
func Generate(question string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "generate", "--question", question, "--fragments", "fragments", "--save")
}

// Batch builds the CLI and runs every job in jobFile.
func Batch(jobFile string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "batch", jobFile)
}

// Reconcile builds the CLI and prints the citation-reconciled form of file
// with statistics.
func Reconcile(file string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "reconcile", "--stats", file)
}
