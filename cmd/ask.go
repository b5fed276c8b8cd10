package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Umesh49/ZeroTrace/internal/audit"
	"github.com/Umesh49/ZeroTrace/internal/pipeline"
)

var (
	askJSON          bool
	askKnowledgeFile string
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Answer a single message",
	Long:  "Run one message through the chatbot and print the reply. On a terminal the reply is rendered as markdown.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the full reply as JSON")
	askCmd.Flags().StringVar(&askKnowledgeFile, "knowledge", "", "Path to a knowledge base YAML file (default: built-in)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	engine, err := loadEngine(askKnowledgeFile)
	if err != nil {
		return err
	}

	pipe := pipeline.New(engine, audit.NopLogger())
	res := pipe.Process(pipeline.SourceCLI, message)

	out := cmd.OutOrStdout()
	if askJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	text := res.Text()
	if out == os.Stdout && isTerminal() {
		if rendered, err := renderMarkdown(text); err == nil {
			text = rendered
		}
	}
	fmt.Fprintln(out, text)

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n  Kind:       %s\n", res.Reply.Kind)
	if res.Reply.Handler != "" {
		fmt.Fprintf(stderr, "  Handler:    %s\n", res.Reply.Handler)
	}
	if m := res.Reply.Match; m != nil {
		fmt.Fprintf(stderr, "  Match:      %s (%s)\n", m.Item.Title(), m.Type)
		fmt.Fprintf(stderr, "  Confidence: %.2f\n", m.Confidence)
	}
	fmt.Fprintln(stderr)

	return nil
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderMarkdown styles a reply for the terminal. Replies are line-oriented,
// so newlines are kept as hard breaks.
func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}
