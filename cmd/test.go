package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Umesh49/ZeroTrace/internal/audit"
	"github.com/Umesh49/ZeroTrace/internal/chatbot"
	"github.com/Umesh49/ZeroTrace/internal/pipeline"
)

var testKnowledgeFile string

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run a built-in sample conversation against the knowledge base",
	Long:  "Run a suite of sample messages and check each reply's kind, handler and match type.",
	RunE:  runTest,
}

func init() {
	testCmd.Flags().StringVar(&testKnowledgeFile, "knowledge", "", "Path to a knowledge base YAML file (default: built-in)")
}

type testCase struct {
	name    string
	message string
	kind    chatbot.Kind
	// expected is the handler name for short-circuit replies and the match
	// type for scored ones.
	expected string
}

var testCases = []testCase{
	// Conversational handlers
	{name: "greeting", message: "Hello there", kind: chatbot.KindShortCircuit, expected: "greeting"},
	{name: "identity", message: "Who are you?", kind: chatbot.KindShortCircuit, expected: "identity"},
	{name: "capability", message: "What can you do", kind: chatbot.KindShortCircuit, expected: "capability"},
	{name: "helpline", message: "what is the helpline", kind: chatbot.KindShortCircuit, expected: "helpline"},
	{name: "thanks", message: "thanks a lot", kind: chatbot.KindShortCircuit, expected: "thanks"},

	// FAQ handlers
	{name: "faq_phishing", message: "What is phishing?", kind: chatbot.KindShortCircuit, expected: "faq-phishing"},
	{name: "faq_section_66", message: "what is section 66 of it act", kind: chatbot.KindShortCircuit, expected: "faq-section-66"},
	{name: "faq_malware", message: "I think I got a virus", kind: chatbot.KindShortCircuit, expected: "faq-malware"},

	// Scored knowledge-base matches
	{name: "threat_definition", message: "explain keyloggers", kind: chatbot.KindMatch, expected: "threat"},
	{name: "law_definition", message: "define BNS section 318", kind: chatbot.KindMatch, expected: "law"},
	{name: "emergency", message: "my files are locked by a ransom demand", kind: chatbot.KindMatch, expected: "emergency"},
	{name: "attack_vector", message: "how to prevent drive-by downloads", kind: chatbot.KindMatch, expected: "vector"},
	{name: "tips", message: "how do i protect myself", kind: chatbot.KindMatch, expected: "tips"},
	{name: "reporting", message: "report cybercrime", kind: chatbot.KindMatch, expected: "reporting"},

	// No confident answer
	{name: "nonsense", message: "xyzqqw randomnonsense", kind: chatbot.KindFallback},
	{name: "empty", message: "   ", kind: chatbot.KindFallback},
}

var (
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

// outcome returns the kind and detail (handler or match type) of a reply.
func outcome(reply *chatbot.Reply) (chatbot.Kind, string) {
	switch {
	case reply.Handler != "":
		return reply.Kind, reply.Handler
	case reply.Match != nil:
		return reply.Kind, string(reply.Match.Type)
	}
	return reply.Kind, ""
}

// runCases answers every case and reports how many failed.
func runCases(pipe *pipeline.Pipeline, cases []testCase, report func(tc testCase, kind chatbot.Kind, detail string, ok bool)) int {
	failed := 0
	for _, tc := range cases {
		res := pipe.Process(pipeline.SourceCLI, tc.message)
		kind, detail := outcome(res.Reply)
		ok := kind == tc.kind && detail == tc.expected
		if !ok {
			failed++
		}
		report(tc, kind, detail, ok)
	}
	return failed
}

func runTest(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine(testKnowledgeFile)
	if err != nil {
		return err
	}
	pipe := pipeline.New(engine, audit.NopLogger())

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n%s\n\n", headerStyle.Render("=== ZeroBot Conversation Tests ==="))

	failed := runCases(pipe, testCases, func(tc testCase, kind chatbot.Kind, detail string, ok bool) {
		status := passStyle.Render("PASS")
		if !ok {
			status = failStyle.Render("FAIL")
		}
		want := string(tc.kind)
		if tc.expected != "" {
			want += "/" + tc.expected
		}
		got := string(kind)
		if detail != "" {
			got += "/" + detail
		}
		fmt.Fprintf(out, "  [%s] %-20s expected=%-30s got=%s\n", status, tc.name, want, got)
	})

	passed := len(testCases) - failed
	fmt.Fprintf(out, "\n  Results: %d passed, %d failed, %d total\n\n",
		passed, failed, len(testCases))

	if failed > 0 {
		return fmt.Errorf("%d test(s) failed", failed)
	}
	return nil
}
