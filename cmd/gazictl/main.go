package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"gazi-tiles/internal/stock"
	"gazi-tiles/pkg/client"
)

const usage = `usage: gazictl [flags] <command> [args]

commands:
  store [code]               list on-hand stock, optionally filtered by code
  check <code> <caton> <pcs> validate a sale against live stock without recording it

flags:
`

func main() {
	baseURL := flag.String("url", envOr("GAZI_API_URL", "http://localhost:5000"), "API base URL")
	token := flag.String("token", os.Getenv("GAZI_API_TOKEN"), "bearer token (see issue-token)")
	timeout := flag.Duration("timeout", 15*time.Second, "request timeout")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := client.New(*baseURL, *token, *timeout)

	var err error
	switch args[0] {
	case "store":
		code := ""
		if len(args) > 1 {
			code = args[1]
		}
		err = runStore(ctx, api, code)
	case "check":
		if len(args) != 4 {
			flag.Usage()
			os.Exit(2)
		}
		err = runCheck(ctx, api, args[1], args[2], args[3])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "gazictl:", err)
		os.Exit(1)
	}
}

func runStore(ctx context.Context, api *client.Client, code string) error {
	rows, err := api.Store(ctx, code)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tCOMPANY\tFEET\tCATON\tPCS\tSIZE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%gx%g/%d\n",
			r.ProductCode, r.Company, r.Feet.StringFixed(2), r.Caton, r.Pcs, r.Height, r.Width, r.PerCatonToPcs)
	}
	return w.Flush()
}

func runCheck(ctx context.Context, api *client.Client, code, catonArg, pcsArg string) error {
	caton, err := strconv.ParseFloat(catonArg, 64)
	if err != nil {
		return fmt.Errorf("caton %q: %w", catonArg, err)
	}
	pcs, err := strconv.ParseFloat(pcsArg, 64)
	if err != nil {
		return fmt.Errorf("pcs %q: %w", pcsArg, err)
	}

	feet, err := api.CheckSale(ctx, code, caton, pcs)
	var saleErr *stock.SaleError
	if errors.As(err, &saleErr) {
		return fmt.Errorf("sale rejected: %w", saleErr)
	}
	if err != nil {
		return err
	}
	fmt.Printf("ok: %s would take %s ft\n", code, feet.StringFixed(4))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
