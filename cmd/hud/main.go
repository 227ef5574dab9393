// Package main provides the hud CLI, a client for the hudd overlay daemon.
package main

func main() {
	Execute()
}
