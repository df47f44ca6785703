package main

import (
	"github.com/masa604/Task---Folder-Sync/cmd"
	"github.com/masa604/Task---Folder-Sync/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
