package main

import "github.com/hamiltonroad/checked-out/app/cli"

func main() {
	cli.Execute()
}
