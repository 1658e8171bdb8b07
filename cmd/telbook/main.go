package main

import "github.com/telbook/telbook/cmd/telbook/cmd"

func main() {
	cmd.Execute()
}
