package main

import "github.com/kailas-cloud/searchretriever/internal/cli"

func main() {
	cli.Execute()
}
