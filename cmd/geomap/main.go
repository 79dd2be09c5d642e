package main

import "geomap/internal/cli"

func main() {
	cli.Execute()
}
