package main

import "github.com/facetag/facetag/cmd"

func main() {
	cmd.Execute()
}
