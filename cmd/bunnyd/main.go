// Package main implements bunnyd, the daemon that runs OCR and translation
// tasks for image markers and serves the bunny HTTP API.
//
// @title Bunny API
// @version 1.0
// @description Asynchronous OCR and translation tasks for image markers.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
