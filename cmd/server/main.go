package main

import "pontaj/internal/app/server"

func main() {
	server.Run()
}
