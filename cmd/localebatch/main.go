// Command localebatch translates the extension's English description and UI
// messages into every configured language with the Gemini API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "localebatch",
		Usage: "machine-translate the store description and extension messages",
		Description: `localebatch sends an English source document to the Gemini API once per
   target language and writes each translation next to the others.

   localebatch description translates description_en.txt into
   output/description_{code}.txt.

   localebatch messages translates the extension's _locales/en/messages.json
   into output/{code}/messages.json.

   The API key is read from GEMINI_API_KEY (a .env file in the working
   directory is loaded first). A failing language is logged and skipped; the
   others are still translated.`,
		Flags: globalFlags,
		Commands: []*cli.Command{
			descriptionCmd,
			messagesCmd,
			allCmd,
			languagesCmd,
			historyCmd,
		},
	}
}

func main() {
	app := newApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
