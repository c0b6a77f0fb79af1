package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ByLCY/momreport/internal/cli"
	"github.com/ByLCY/momreport/report"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		switch report.CodeOf(err) {
		case report.CodeInvalidInput:
			os.Exit(2)
		case report.CodeForbidden:
			os.Exit(3)
		case report.CodeNotGenerated:
			os.Exit(4)
		}
		os.Exit(1)
	}
}
