package main

import "github.com/K9MKE/archivewrapped/cmd"

func main() {
	cmd.Execute()
}
