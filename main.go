package main

import "pereval-backend/cmd"

func main() {
	cmd.Run()
}
