// Package main is the entry point for the mapforge CLI.
package main

func main() {
	Execute()
}
