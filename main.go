package main

import "github.com/KaramelBytes/adlens-cli/cmd"

func main() {
	cmd.Execute()
}
