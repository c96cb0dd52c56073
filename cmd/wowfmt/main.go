package main

import "github.com/ssargent/wowformats/cmd/wowfmt/cmd"

func main() {
	cmd.Execute()
}
