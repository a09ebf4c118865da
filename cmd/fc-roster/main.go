package main

import (
	"context"

	"fc-roster-parser/cmd/fc-roster/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
