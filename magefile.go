//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

func Build() error {
	mg.Deps(BuildMadaReader)
	fmt.Println("Compilation finished")
	return nil
}

// BuildMadaReader builds bin/madareader. HDF5 is linked through cgo, so
// CGO_CFLAGS and CGO_LDFLAGS are forwarded from the environment.
func BuildMadaReader() error {
	fmt.Println("Building madareader executable...")
	return goCmd("build", "-o", "./bin/madareader", "./madareader")
}

// Test runs the unit tests of the pure Go packages.
func Test() error {
	fmt.Println("Running tests...")
	return goCmd("test", "./pkg", "./pkg/cache")
}

func goCmd(args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
