package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/taxonomiaia/taxocli/internal/chat"
	"github.com/taxonomiaia/taxocli/internal/listing"
	"github.com/taxonomiaia/taxocli/internal/render"
	"github.com/taxonomiaia/taxocli/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat [sample-id]",
	Short: "Ask follow-up questions about a sample",
	Long: `Starts an interactive conversation scoped to the active sample. With a
sample id, that sample becomes active; without one, the first sample in the
listing does. Type "exit" or press Ctrl+D to leave.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// termView prints transcript updates to the terminal.
type termView struct{}

func (termView) Message(m chat.Message) {
	switch m.Role {
	case chat.RoleUser:
		// The prompt already echoed the user's line.
	default:
		fmt.Printf("\n%s\n\n", m.Text)
	}
}

func (termView) TypingOn()  { fmt.Print("...") }
func (termView) TypingOff() { fmt.Print("\r   \r") }

// quietSurface swallows cards while the chat command establishes the active
// sample; notices and errors still reach the user.
type quietSurface struct{}

func (quietSurface) Card(render.Card) {}
func (quietSurface) Notice(text string) {
	fmt.Println(text)
}
func (quietSurface) Error(text string, err error) {
	fmt.Fprintf(os.Stderr, "%s\n  %v\n", text, err)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var id string
	if len(args) == 1 {
		id = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newClient(cfg)
	active := &session.ActiveSample{}

	// Establish the active sample the same way the results view does: a
	// lookup when an id was given, otherwise the first listed sample.
	loader := listing.New(client, active)
	loader.Load(ctx, id, quietSurface{})

	if sampleID, ok := active.Get(); ok {
		fmt.Printf("Chatting about sample %s. Type \"exit\" to leave.\n", sampleID)
	} else {
		fmt.Println("No sample is active yet; answers will say so until one is found.")
	}

	sess := chat.NewSession(client, active, termView{})

	for {
		prompt := promptui.Prompt{Label: "you"}
		line, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		sess.Send(ctx, line)
	}
}
