package main

import "orderdesk/cmd/orderdesk-cli/cmd"

func main() {
	cmd.Execute()
}
