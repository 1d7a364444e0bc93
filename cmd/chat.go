package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/dependency"
	"github.com/fieldlens/fieldlens/internal/dialogue"
)

var chatMessage string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Handle a single message and exit")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	engine := container.Engine()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prompter := newConsolePrompter(ctx)

	if chatMessage != "" {
		msgCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		res, err := engine.HandleMessage(msgCtx, prompter, chatMessage)
		if err != nil {
			return err
		}
		if res.Report != "" {
			fmt.Println(res.Report)
		}
		return nil
	}

	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n", logo)
	fmt.Println("Tip: 'simplify <TOOL_SLUG>' walks a tool directly.")
	fmt.Println()

	for {
		line, err := prompter.Ask(ctx, "")
		if err != nil {
			fmt.Println("\nGoodbye!")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		res, err := engine.HandleMessage(ctx, prompter, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if res.Report != "" {
			fmt.Printf("\n%s\n\n", res.Report)
		}
	}
}

// ---------------------------------------------------------------------------
// Console prompter
// ---------------------------------------------------------------------------

// consolePrompter drives a dialogue over stdin/stdout. A context cancel
// (Ctrl+C) surfaces as ErrInterrupted so the collector returns partial
// values instead of dying mid-question.
type consolePrompter struct {
	scanner *bufio.Scanner
}

func newConsolePrompter(_ context.Context) *consolePrompter {
	return &consolePrompter{scanner: bufio.NewScanner(os.Stdin)}
}

func (p *consolePrompter) Say(_ context.Context, text string) error {
	fmt.Println(text)
	return nil
}

func (p *consolePrompter) Ask(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		fmt.Printf("%s\n> ", prompt)
	} else {
		fmt.Print("You: ")
	}

	scanDone := make(chan bool, 1)
	go func() {
		scanDone <- p.scanner.Scan()
	}()

	select {
	case ok := <-scanDone:
		if !ok {
			if err := p.scanner.Err(); err != nil {
				return "", err
			}
			return "", dialogue.ErrInterrupted
		}
		return p.scanner.Text(), nil
	case <-ctx.Done():
		return "", dialogue.ErrInterrupted
	}
}
