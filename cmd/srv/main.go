package main

import (
	"log"
	"os"
)

func main() {
	server := &srv{}
	server.loadApp()

	if err := server.app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
