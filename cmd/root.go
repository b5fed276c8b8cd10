package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Umesh49/ZeroTrace/internal/chatbot"
	"github.com/Umesh49/ZeroTrace/internal/knowledge"
)

// Version is set at build time.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "zerobot",
	Short: "ZeroBot: rule-based cybersecurity assistant",
	Long: `ZeroBot answers cybersecurity questions from a curated knowledge base
of Indian cyber laws, threats, emergency scenarios, best practices and
reporting channels. Every answer is deterministic: a message is normalized,
checked against conversational handlers, then scored against the knowledge
base, with a fallback when no match is confident enough.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("zerobot v%s\n", Version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Str("component", "zerobot").Logger()
}

// loadEngine builds an engine from a knowledge file, or returns the
// built-in engine when path is empty.
func loadEngine(path string) (*chatbot.Engine, error) {
	if path == "" {
		return chatbot.Default(), nil
	}
	kb, err := knowledge.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}
	return chatbot.New(kb), nil
}
