package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/spf13/pflag"

	"benovitz-content-api/internal/config"
	"benovitz-content-api/internal/tui"
	"benovitz-content-api/pkg/contentclient"
	"benovitz-content-api/pkg/contentstate"
	"benovitz-content-api/pkg/logger"
)

var validFormats = []contentclient.Format{
	contentclient.FormatArticle,
	contentclient.FormatSocialMedia,
	contentclient.FormatShiurOutline,
	contentclient.FormatShortReflection,
	contentclient.FormatAdvisorTraining,
}

type options struct {
	topic      string
	format     string
	context    string
	output     string
	apiKey     string
	baseURL    string
	configDir  string
	promptOnly bool

	interactive      bool
	showVoiceProfile bool
	listFormats      bool
	systemPrompt     bool
	health           bool
}

func newFlagSet(opts *options, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("content-cli", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&opts.format, "format", "f", string(contentclient.FormatArticle), "Content format: "+formatList())
	fs.StringVarP(&opts.context, "context", "c", "", "Additional context or notes for the content")
	fs.BoolVarP(&opts.promptOnly, "prompt-only", "p", false, "Output the prompt template instead of generating content")
	fs.StringVarP(&opts.output, "output", "o", "", "Output file path (default: print to stdout)")
	fs.BoolVarP(&opts.interactive, "interactive", "i", false, "Run in interactive mode")
	fs.BoolVar(&opts.showVoiceProfile, "show-voice-profile", false, "Display the voice profile analysis")
	fs.BoolVar(&opts.listFormats, "formats", false, "List available content formats")
	fs.BoolVar(&opts.systemPrompt, "system-prompt", false, "Print the full system prompt")
	fs.BoolVar(&opts.health, "health", false, "Check service health")
	fs.StringVar(&opts.apiKey, "api-key", "", "API key (or set CONTENT_API_KEY)")
	fs.StringVar(&opts.baseURL, "url", "", "Service base URL (or set CONTENT_API_URL)")
	fs.StringVar(&opts.configDir, "config", config.DefaultDir, "Config directory")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: content-cli [topic] [options]\n\n")
		fmt.Fprintf(out, "Generate content in the voice of Rabbi Moshe Benovitz\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  content-cli \"Making tefillah meaningful for teens\"\n")
		fmt.Fprintf(out, "  content-cli \"Authentic growth\" -f short_reflection\n")
		fmt.Fprintf(out, "  content-cli -i\n")
	}
	return fs
}

func formatList() string {
	names := make([]string, len(validFormats))
	for i, f := range validFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func parseFormat(s string) (contentclient.Format, error) {
	for _, f := range validFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format '%s', valid formats: %s", s, formatList())
}

func parseArgs(args []string, out io.Writer) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	fs := newFlagSet(opts, out)
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	opts.topic = strings.TrimSpace(strings.Join(fs.Args(), " "))
	return opts, fs, nil
}

// newClient 命令行参数优先于配置文件与环境变量
func newClient(opts *options) (*contentclient.Client, error) {
	cfg, err := config.LoadFrom(opts.configDir)
	if err != nil {
		return nil, err
	}

	baseURL, apiKey := cfg.Client.BaseURL, cfg.Client.APIKey
	if opts.baseURL != "" {
		baseURL = opts.baseURL
	}
	if opts.apiKey != "" {
		apiKey = opts.apiKey
	}

	return contentclient.New(contentclient.ClientConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: cfg.Client.Timeout},
	}), nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, fs, err := parseArgs(args, stdout)
	if err != nil {
		return err
	}

	level := "warn"
	if misc.Truthy(os.Getenv("DEBUG")) {
		level = "debug"
	}
	logger.InitTo(os.Stderr, level, "text")

	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}

	client, err := newClient(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch {
	case opts.health:
		return printHealth(ctx, client, stdout)
	case opts.listFormats:
		return printFormats(ctx, client, stdout)
	case opts.showVoiceProfile:
		return printVoiceProfile(ctx, client, stdout)
	case opts.systemPrompt:
		prompt, err := client.GetSystemPrompt(ctx)
		if err != nil {
			return err
		}
		return writeResult(stdout, opts.output, prompt)
	case opts.interactive:
		return tui.Run(contentstate.New(client))
	}

	if opts.topic == "" {
		fs.Usage()
		return fmt.Errorf("%w, or use --interactive mode", contentclient.ErrEmptyTopic)
	}

	resp, err := client.Generate(ctx, contentclient.GenerateRequest{
		Topic:             opts.topic,
		Format:            format,
		AdditionalContext: opts.context,
		PromptOnly:        opts.promptOnly,
	})
	if err != nil {
		return err
	}
	return writeResult(stdout, opts.output, resp.Content)
}

func writeResult(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	ancli.PrintOK(fmt.Sprintf("Content written to %s\n", path))
	return nil
}

func printHealth(ctx context.Context, client *contentclient.Client, stdout io.Writer) error {
	status, err := client.HealthCheck(ctx)
	if err != nil {
		return err
	}
	if status.Status != "healthy" {
		ancli.PrintWarn(fmt.Sprintf("service reported status '%s'\n", status.Status))
	}
	_, err = fmt.Fprintf(stdout, "%s: %s\n", client.BaseURL(), status.Status)
	return err
}

func printFormats(ctx context.Context, client *contentclient.Client, stdout io.Writer) error {
	formats, err := client.GetFormats(ctx)
	if err != nil {
		return err
	}
	for _, f := range formats {
		fmt.Fprintf(stdout, "%-18s %s - %s\n", f.Value, f.Name, f.Description)
	}
	return nil
}

func printVoiceProfile(ctx context.Context, client *contentclient.Client, stdout io.Writer) error {
	p, err := client.GetVoiceProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\n=== %s VOICE PROFILE ===\n\n", strings.ToUpper(p.Name))
	fmt.Fprintf(stdout, "Name: %s\n", p.Name)
	sections := []struct{ title, body string }{
		{"Tone", p.Tone},
		{"Style Patterns", p.StylePatterns},
		{"Themes", p.Themes},
		{"Influences", p.Influences},
		{"Hebrew Vocabulary", p.HebrewVocabulary},
		{"Common Transitions", p.Transitions},
	}
	for _, s := range sections {
		fmt.Fprintf(stdout, "\n%s:\n%s\n", s.title, s.body)
	}
	return nil
}
