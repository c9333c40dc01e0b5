package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/your-org/namegen/internal/app"
	"github.com/your-org/namegen/internal/config"
	"github.com/your-org/namegen/internal/names"
	"github.com/your-org/namegen/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	command := args[0]
	switch command {
	case "-v", "--version", "version":
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "generate", "validate":
		return runRequest(ctx, command, args[1:], stdout, stderr)
	case "audit-export":
		if len(args) < 2 {
			usage(stderr)
			return 1
		}
		outputPath := "audit.csv"
		if len(args) > 2 {
			outputPath = args[2]
		}
		if err := app.ExportAudit(args[1], outputPath, stdout); err != nil {
			_, _ = fmt.Fprintf(stderr, "namegen audit-export failed: %v\n", err)
			return 1
		}
		return 0
	default:
		usage(stderr)
		return 1
	}
}

func runRequest(ctx context.Context, command string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	genre := fs.String("genre", "", "genre, e.g. fantasy")
	styles := fs.String("styles", "", "comma-separated style keywords")
	race := fs.String("race", "", "optional race or species")
	gender := fs.String("gender", "", "neutral, masculine or feminine")
	length := fs.String("length", "", "short, medium or long")
	complexity := fs.String("complexity", "", fmt.Sprintf("%d-%d", names.MinComplexity, names.MaxComplexity))
	count := fs.String("count", "", fmt.Sprintf("%d-%d", names.MinCount, names.MaxCount))
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	req := names.Request{
		Genre:  *genre,
		Styles: splitStyles(*styles),
		Race:   *race,
		Gender: names.Gender(*gender),
		Length: names.Length(*length),
	}
	if *complexity != "" {
		req.Complexity = names.NumberFromString(*complexity)
	}
	if *count != "" {
		req.Count = names.NumberFromString(*count)
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "namegen config: %v\n", err)
		return 1
	}

	if command == "validate" {
		if err := cfg.Validator().Validate(req); err != nil {
			_, _ = fmt.Fprintf(stderr, "namegen validate failed: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(stdout, "request is valid")
		return 0
	}

	rt, err := app.NewRuntime(ctx, cfg, app.RuntimeOptions{Actor: "cli", SkipLimiter: true})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "namegen runtime: %v\n", err)
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Close(closeCtx)
	}()

	res := rt.Generator.Generate(ctx, req)
	if err := app.WriteResult(stdout, res, *asJSON); err != nil {
		_, _ = fmt.Fprintf(stderr, "namegen output: %v\n", err)
		return 1
	}
	if !res.Success {
		return 1
	}
	return 0
}

// splitStyles never returns nil so an omitted flag reads as an empty list.
func splitStyles(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: namegen <generate|validate|audit-export|version> [flags]")
	_, _ = fmt.Fprintln(w, "  generate -genre G [-styles a,b] [-race R] [-gender G] [-length L] [-complexity C] [-count N] [-json]")
	_, _ = fmt.Fprintln(w, "  validate (same flags as generate)")
	_, _ = fmt.Fprintln(w, "  audit-export <input.jsonl> [output.csv]")
}
