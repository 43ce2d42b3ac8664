package main

import "github.com/tansive/keyboardserver/internal/cli"

func main() {
	cli.Execute()
}
