//go:build mage

// Package main contains Mage build targets for nuflux.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir   = "bin"
	binName  = "nuflux"
	cmdPkg   = "./cmd/nuflux"
	dataDir  = ".nuflux"
	scenario = "scenarios/thesis.yaml"
)

var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs every package test with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Tabulate runs the thesis scenario into the data directory.
func Tabulate() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "--data", dataDir, "scenario", scenario)
}

// Clean removes the binary and every stored run.
func Clean() error {
	for _, dir := range []string{binDir, dataDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
