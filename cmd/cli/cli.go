package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/amirasaad/usdtgate/pkg/config"
	"github.com/amirasaad/usdtgate/pkg/debounce"
	"github.com/amirasaad/usdtgate/pkg/pricefeed"
	"github.com/amirasaad/usdtgate/pkg/pricing"
	"github.com/amirasaad/usdtgate/pkg/quote"
	"github.com/amirasaad/usdtgate/pkg/validation"
	"github.com/fatih/color"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  quote <amount>                       show the fee breakdown for a USDT amount
  validate <amount> <email> <address>  check the purchase form
  interactive                          recompute the quote as amounts are typed`

var (
	errUsage       = errors.New("invalid usage")
	errInvalidForm = errors.New("invalid purchase form")
)

var (
	labelColor   = color.New(color.FgHiBlack)
	valueColor   = color.New(color.FgHiWhite, color.Bold)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed)
	buttonColor  = color.New(color.FgBlack, color.BgGreen)
	discountText = color.New(color.FgGreen)
)

type cli struct {
	mu        sync.Mutex
	out       io.Writer
	cfg       *config.App
	quotes    *quote.Builder
	validator *validation.Validator
}

func newCLI(cfg *config.App, out io.Writer) (*cli, error) {
	pc, err := cfg.PricingConfig()
	if err != nil {
		return nil, err
	}
	engine, err := pricing.NewEngine(pc)
	if err != nil {
		return nil, err
	}
	v := validation.New(pc)
	feed := pricefeed.New(cfg.PriceFeed.USDT, cfg.PriceFeed.TRX, 0)
	return &cli{
		out:       out,
		cfg:       cfg,
		quotes:    quote.NewBuilder(engine, v, feed),
		validator: v,
	}, nil
}

func run(cfg *config.App, args []string, in io.Reader, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}
	c, err := newCLI(cfg, out)
	if err != nil {
		return err
	}
	switch args[0] {
	case "quote":
		if len(args) != 2 {
			return errUsage
		}
		c.printQuote(c.quotes.Build(args[1]))
		return nil
	case "validate":
		if len(args) != 4 {
			return errUsage
		}
		return c.validate(args[1], args[2], args[3])
	case "interactive":
		return c.interactive(in)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func (c *cli) line(label string, value string, valueStyle *color.Color) {
	fmt.Fprintf(c.out, "%s %s\n", labelColor.Sprintf("%-16s", label), valueStyle.Sprint(value))
}

func (c *cli) printQuote(v quote.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v.Field.Message != "" {
		c.line("Amount", v.Field.Message, errColor)
	}
	if v.Normalized != "" && v.Normalized != strings.TrimSpace(v.Input) {
		c.line("Rounded to", v.Normalized+" USDT", warnColor)
	}
	c.line("You pay", v.YouPay, valueColor)
	receive := v.YouReceive
	if v.YouReceiveShort != "" {
		receive += " (" + v.YouReceiveShort + ")"
	}
	c.line("You receive", receive, valueColor)
	c.line("Transaction fee", v.TransactionFee, valueColor)
	if v.Priced {
		c.line("", v.OriginalFee, labelColor)
		c.line("Discount", v.FeeDiscount, discountText)
		c.line("", v.Help, labelColor)
		c.line("USD value", v.USDValue, labelColor)
	}
	fmt.Fprintln(c.out, buttonColor.Sprintf(" %s ", v.PayButton))
}

func (c *cli) validate(amount, email, address string) error {
	res := c.validator.Form(validation.Form{Amount: amount, Email: email, WalletAddress: address})
	for _, f := range res.Fields() {
		switch f.State {
		case validation.StateValid:
			c.line(string(f.Field), "✓ valid", okColor)
		case validation.StateEmpty:
			msg := f.Message
			if msg == "" {
				msg = "empty"
			}
			c.line(string(f.Field), msg, warnColor)
		default:
			c.line(string(f.Field), "✗ "+f.Message, errColor)
		}
	}
	if !res.Valid {
		return errInvalidForm
	}
	return nil
}

// interactive reads one amount per line and prints the quote once input
// settles for the debounce delay. Remaining input is flushed at EOF.
func (c *cli) interactive(in io.Reader) error {
	d := debounce.New(c.cfg.DebounceDelay, func(raw string) {
		c.printQuote(c.quotes.Build(raw))
	})
	defer d.Stop()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			break
		}
		d.Trigger(line)
	}
	d.Flush()
	return scanner.Err()
}
