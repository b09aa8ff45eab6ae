//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with the given config file.
func (Run) Testbed(config string) error {
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", "main.go", config), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed without a window for a fixed number of frames and
// writes the last one to snapshot.png.
func (Run) Headless() error {
	env := map[string]string{"ANIMA_LOG_LEVEL": "info"}
	if _, err := executeCmd("go", withArgs("run", "main.go", "headless.toml"), withEnv(env), withStream()); err != nil {
		return err
	}
	return nil
}
