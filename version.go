package main

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Set with buildflag when built in a pipeline, not via go install
var buildVersion = ""

func printVersion() error {
	if buildVersion != "" {
		fmt.Println("version: " + buildVersion)
		return nil
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("failed to read build info")
	}
	fmt.Println("version: " + bi.Main.Version)
	return nil
}
