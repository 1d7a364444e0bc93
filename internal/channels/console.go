package channels

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fieldlens/fieldlens/internal/bus"
)

var consoleExitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

// ConsoleChannel wires the terminal (stdin/stdout) onto the bus so the
// gateway can serve an interactive session alongside the network transports.
type ConsoleChannel struct {
	Base
}

// NewConsoleChannel creates a ConsoleChannel.
func NewConsoleChannel(b bus.Bus) *ConsoleChannel {
	return &ConsoleChannel{Base: NewBase(bus.ChannelConsole, b, nil)}
}

func (c *ConsoleChannel) Name() string { return string(bus.ChannelConsole) }

// Start runs the stdin loop: reads lines and publishes them inbound.
// Blocks until ctx is cancelled or stdin is closed.
func (c *ConsoleChannel) Start(ctx context.Context) error {
	fmt.Printf("Console ready. Type 'exit' or press Ctrl+C to quit.\n\n")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")

		scanDone := make(chan bool, 1)
		go func() {
			scanDone <- scanner.Scan()
		}()

		select {
		case ok := <-scanDone:
			if !ok {
				fmt.Println("\nGoodbye!")
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if consoleExitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		c.HandleMessage("console", "direct", line, nil)
	}
}

// Send prints one outbound message to stdout.
func (c *ConsoleChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	fmt.Printf("%s\n", msg.Content())
	return nil
}
