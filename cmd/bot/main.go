// Command bot is an operator CLI for the bot side of the trust channel. It
// talks to the backend exactly as the chat bot does: every request is
// signed and bearer tokens come from the shared cache.
//
//	bot [flags] token
//	bot [flags] whoami
//	bot [flags] link start <external-id>
//	bot [flags] link confirm <external-id> <code> [--chat-id N]
//	bot [flags] ready
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/tasker/internal/bot/app"
	"github.com/aussiebroadwan/tasker/internal/bot/config"
	"github.com/aussiebroadwan/tasker/pkg/apiclient"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(argv []string) error {
	var (
		envFile string
		chatID  int64
	)

	flagSet := pflag.NewFlagSet("bot", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "optional dotenv file with bot settings")
	flagSet.Int64Var(&chatID, "chat-id", 0, "chat to associate with a confirmed link (default: the external id)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(flagSet)
		return nil
	}

	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer bot.Close()

	args := flagSet.Args()
	switch args[0] {
	case "token":
		tok, err := bot.Manager.EnsureAccessToken(ctx)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil

	case "whoami":
		return printResult(bot.Session.WhoAmI(ctx))

	case "ready":
		return printResult(bot.Client.Ready(ctx))

	case "link":
		if len(args) < 2 {
			return errors.New("usage: link start|confirm ...")
		}
		switch args[1] {
		case "start":
			if len(args) != 3 {
				return errors.New("usage: link start <external-id>")
			}
			return printResult(bot.Session.StartLink(ctx, args[2]))
		case "confirm":
			if len(args) != 4 {
				return errors.New("usage: link confirm <external-id> <code>")
			}
			if !flagSet.Changed("chat-id") {
				if _, err := fmt.Sscan(args[2], &chatID); err != nil {
					return errors.New("--chat-id is required when the external id is not numeric")
				}
			}
			return printResult(bot.Session.ConfirmLink(ctx, args[2], args[3], chatID))
		}
		return fmt.Errorf("unknown link command %q", args[1])
	}

	return fmt.Errorf("unknown command %q", args[0])
}

func printResult[T any](v T, err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: bot [flags] <command>

Commands:
  token                               print a valid access token
  whoami                              show the bot service account
  link start <external-id>            issue a one-time link code
  link confirm <external-id> <code>   consume a link code
  ready                               check backend readiness

Flags:
%s`, flagSet.FlagUsages())
}
