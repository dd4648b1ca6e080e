package main

import "bitbucket.org/ltman/goldleaf/cmd"

func main() {
	cmd.Execute()
}
