package main

import (
	"github.com/prasastio/marketplace/cmd"
)

func main() {
	cmd.Start()
}
