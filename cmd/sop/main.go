package main

import (
	"context"

	"sopaggregator/cmd/sop/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
