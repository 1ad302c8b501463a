package main

import "github.com/llehouerou/jukebox/internal/cli"

func main() {
	cli.Execute()
}
