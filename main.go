package main

import "github.com/chaaruze/too-many-chats/cmd"

func main() {
	cmd.Execute()
}
