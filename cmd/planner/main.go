package main

import (
	"charging-route-service/internal/app"
	"charging-route-service/internal/config"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
)

const usageError = "Error: requires initial and final supercharger names"

// main prints the charging route between two stations:
//
//	planner Council_Bluffs_IA Albert_Lea_MN
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, usageError)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	a, err := app.Build(ctx, cfg, prometheus.NewRegistry())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer a.Close()

	res, err := a.Search.Solve(ctx, args[0], args[1])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, res.Route)
	return 0
}
