// Package main is the entry point for the pipetree-azureml plugin CLI
package main

import (
	"github.com/pipetree/azureml/cmd"
)

func main() {
	cmd.Execute()
}
