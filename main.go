package main

import "volunteer-network-backend/cmd"

func main() {
	cmd.Run()
}
