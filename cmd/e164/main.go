// Command e164 prints fake E.164 telephone numbers.
//
//	e164 -region GB -count 5
//	e164 -invalid -region US
//	e164 -impossible -invalid -format json
//	e164 -safe -region AU
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"fake_e164_backend/internal/e164"
	"fake_e164_backend/platform/faker"
	"fake_e164_backend/platform/logger"
	"fake_e164_backend/platform/phone"
)

type options struct {
	region      string
	count       int
	invalid     bool
	impossible  bool
	safe        bool
	seed        int64
	maxAttempts int
	timeout     time.Duration
	format      string
	verbose     bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	env := "production"
	if opts.verbose {
		env = "development"
	}
	log := logger.NewWithWriter(env, os.Stderr)

	if err := run(context.Background(), opts, os.Stdout, log); err != nil {
		fmt.Fprintln(os.Stderr, "e164:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("e164", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.region, "region", "", "ISO 3166-1 alpha-2 region (random when empty)")
	fs.IntVar(&opts.count, "count", 1, "how many numbers to print")
	fs.BoolVar(&opts.invalid, "invalid", false, "generate numbers that fail validation")
	fs.BoolVar(&opts.impossible, "impossible", false, "generate numbers of impossible length (requires -invalid)")
	fs.BoolVar(&opts.safe, "safe", false, "pick from numbers reserved for fiction and testing")
	fs.Int64Var(&opts.seed, "seed", 0, "random seed (0 = time based)")
	fs.IntVar(&opts.maxAttempts, "max-attempts", 10000, "candidate limit per number (0 = unbounded)")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "overall deadline (0 = none)")
	fs.StringVar(&opts.format, "format", "text", "output format: text or json")
	fs.BoolVar(&opts.verbose, "v", false, "log every accepted candidate to stderr")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.count < 1 {
		fmt.Fprintln(stderr, "e164: -count must be at least 1")
		return options{}, errors.New("invalid count")
	}
	if opts.format != "text" && opts.format != "json" {
		fmt.Fprintln(stderr, "e164: -format must be text or json")
		return options{}, errors.New("invalid format")
	}
	return opts, nil
}

func run(ctx context.Context, opts options, out io.Writer, log *logger.Logger) error {
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	provider := e164.NewProvider(phone.NewOracle(), e164.MustLoadSafeRegistry(), opts.maxAttempts, log)
	if err := faker.New(opts.seed).AddProvider(provider); err != nil {
		return err
	}

	numbers := make([]string, 0, opts.count)
	for i := 0; i < opts.count; i++ {
		var (
			number string
			err    error
		)
		if opts.safe {
			number, err = provider.SafeE164(opts.region)
		} else {
			number, err = provider.E164(ctx,
				e164.WithRegion(opts.region),
				e164.WithValid(!opts.invalid),
				e164.WithPossible(!opts.impossible),
			)
		}
		if err != nil {
			return err
		}
		numbers = append(numbers, number)
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Numbers []string `json:"numbers"`
		}{Numbers: numbers})
	}
	for _, number := range numbers {
		if _, err := fmt.Fprintln(out, number); err != nil {
			return err
		}
	}
	return nil
}
