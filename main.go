package main

import "github.com/coursetrans/coursetrans/cmd"

func main() {
	cmd.Execute()
}
