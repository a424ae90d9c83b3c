package main

import "github.com/invertome/hcr-prober/cmd"

func main() {
	cmd.Execute()
}
