package main

import (
	"bufio"
	"charging-route-service/internal/app"
	"charging-route-service/internal/config"
	"charging-route-service/internal/services"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// main solves every "start goal" pair of a file and prints one
// "start goal: route" line per pair, in input order.
//
//	batch -workers 8 pairs.txt
func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workers := fs.Int("workers", runtime.NumCPU(), "concurrent searches")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: batch [-workers n] <pairs file | ->")
		return 2
	}

	in := stdin
	if path := fs.Arg(0); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		defer f.Close()
		in = f
	}

	reqs, err := readPairs(in)
	if err != nil {
		fmt.Fprintln(stderr, err)
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

	results, err := services.SolveBatch(ctx, a.Search, reqs, *workers)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(stderr, "%s %s: %v\n", r.Request.Start, r.Request.Goal, r.Err)
			continue
		}
		fmt.Fprintf(stdout, "%s %s: %s\n", r.Request.Start, r.Request.Goal, r.Result.Route)
	}

	if failed > 0 {
		return 1
	}
	return 0
}

// readPairs parses whitespace separated "start goal" lines. Blank lines and
// lines starting with # are skipped.
func readPairs(r io.Reader) ([]services.RouteRequest, error) {
	var reqs []services.RouteRequest

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("read pairs: line %d: want 2 station names, got %d", line, len(fields))
		}
		reqs = append(reqs, services.RouteRequest{Start: fields[0], Goal: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pairs: %w", err)
	}

	return reqs, nil
}
