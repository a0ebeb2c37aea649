// Command seasoncal serves, inspects and edits the in-game calendar.
//
// Usage:
//
//	seasoncal serve                      # HTTP API
//	seasoncal console                    # interactive debug console
//	seasoncal date now                   # print today's in-game date
//	seasoncal calendar --season summer   # print a season grid
//	seasoncal events import save.toml    # load events from a save file
//	seasoncal watch                      # follow the save file's date
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
