package main

import "github.com/emlak-portal/cli"

func main() {
	cli.Execute()
}
