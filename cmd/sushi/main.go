package main

import (
	"github.com/mlhartme/sushi-sub000/internal/cli"
)

func main() {
	cli.Execute()
}
