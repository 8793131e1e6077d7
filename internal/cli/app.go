// Package cli implements the interactive terminal menus. All parsing and
// rendering lives here; the core components never touch the terminal.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lfernandes/caixa/internal/catalog"
	"github.com/lfernandes/caixa/internal/ledger"
	"github.com/lfernandes/caixa/internal/report"
)

// App drives the interactive session over the core components.
type App struct {
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	reports *report.Engine
	in      *bufio.Scanner
	out     io.Writer
	printer *message.Printer
}

// New creates the interactive app. An unparseable locale falls back to
// en-US for number formatting.
func New(cat *catalog.Catalog, led *ledger.Ledger, rep *report.Engine, in io.Reader, out io.Writer, locale string) *App {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &App{
		catalog: cat,
		ledger:  led,
		reports: rep,
		in:      bufio.NewScanner(in),
		out:     out,
		printer: message.NewPrinter(tag),
	}
}

// Run loops on the main menu until the user quits, input ends, or the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "================ MAIN MENU ================")
		fmt.Fprintln(a.out, "1. Manage stock")
		fmt.Fprintln(a.out, "2. Open register (new sale)")
		fmt.Fprintln(a.out, "3. Reports")
		fmt.Fprintln(a.out, "4. Quit")
		fmt.Fprintln(a.out, "===========================================")

		choice, ok := a.readLine("Choose an option: ")
		if !ok {
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			if err := a.runStockMenu(ctx); err != nil {
				return err
			}
		case "2":
			a.runSale(ctx)
		case "3":
			if err := a.runReportsMenu(ctx); err != nil {
				return err
			}
		case "4":
			fmt.Fprintln(a.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid option, try again.")
		}
	}
}

// readLine prompts and reads one line. The second return is false once
// input is exhausted.
func (a *App) readLine(prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}

func (a *App) money(value float64) string {
	return a.printer.Sprintf("$%.2f", value)
}
