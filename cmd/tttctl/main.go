package main

import "github.com/tycho-bear/tic-tac-toe/internal/cli"

func main() {
	cli.Execute()
}
