package main

import "github.com/KaramelBytes/dcviz/cmd"

func main() {
	cmd.Execute()
}
