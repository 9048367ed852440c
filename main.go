package main

import "github.com/vietdv277/gatecert/cmd"

func main() {
	cmd.Execute()
}
