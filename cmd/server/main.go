package main

import (
	"worksync/internal/app/server"
)

func main() {
	server.Run()
}
