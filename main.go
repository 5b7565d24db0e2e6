package main

import "capstone-guard/cmd/server"

func main() {
	server.Init()
	server.Run()
}
