package main

import "github.com/pawrequest/gommence/internal/cli"

func main() {
	cli.Execute()
}
