// Package main is the entry point for the application.
//
// @title Productos API
// @version 1.0
// @description Read-only catalog API with paginated listings and price statistics.
//
// @host localhost:3000
// @BasePath /
// @schemes http https
package main

import "github.com/productos/catalog-api/cmd/catalog/cmd"

func main() {
	cmd.Execute()
}
