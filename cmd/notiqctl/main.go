// Package main provides the CLI entrypoint for notiqctl.
package main

func main() {
	Execute()
}
