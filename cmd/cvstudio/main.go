package main

import "cvstudio-backend/internal/cli"

func main() {
	cli.Execute()
}
