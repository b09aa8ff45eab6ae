//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the testbed binary into bin/.
func (Build) Engine() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima2d", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Tidies the module and runs go vet.
func (Build) Tidy() error {
	return goTidy()
}
