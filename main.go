package main

import "github.com/hook-xyz/odyssey-go/cmd"

func main() {
	cmd.Execute()
}
