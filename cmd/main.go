package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/iamswethaa/chatbot/internal/types"
	"github.com/iamswethaa/chatbot/pkg/assistant"
	"github.com/iamswethaa/chatbot/pkg/config"
	"github.com/iamswethaa/chatbot/pkg/logger"
	"github.com/iamswethaa/chatbot/server"
)

type Flags struct {
	ConfigPath string
	DocsDir    string
	ServeAddr  string
	Model      string
	DBUrl      string
	Streaming  bool
	Debug      bool
}

func main() {
	flags := parseFlags()

	if err := run(flags); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() Flags {
	var flags Flags

	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&flags.DocsDir, "docs", "", "Folder of documents to ingest before chatting")
	flag.StringVar(&flags.ServeAddr, "serve", "", "Run the websocket server on this address instead of the chat loop")
	flag.StringVar(&flags.Model, "model", "", "Override the LLM model")
	flag.StringVar(&flags.DBUrl, "db-url", "", "PostgreSQL connection string")
	flag.BoolVar(&flags.Streaming, "stream", true, "Enable streaming responses")
	flag.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	flag.Parse()

	return flags
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(flags Flags) error {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.Model != "" {
		cfg.LLM.Model = flags.Model
	}
	if flags.DBUrl != "" {
		cfg.Database.URL = flags.DBUrl
	}
	cfg.UI.Streaming = flags.Streaming

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	zlog := logger.New(flags.Debug)
	defer zlog.Sync()

	svc, err := assistant.New(cfg, zlog)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if err := svc.Probe(ctx); err != nil {
		color.Yellow("Language model not reachable yet: %v", err)
	}

	if flags.DocsDir != "" {
		spinner := getSpinner(" Ingesting documents...")
		stats, err := svc.IngestFolder(ctx, flags.DocsDir)
		spinner.Finish()
		if err != nil {
			return fmt.Errorf("failed to ingest documents: %v", err)
		}
		color.Green("✓ Ingested %d documents into %d chunks (%d failed)\n",
			stats.Documents, stats.Chunks, stats.Failed)
	}

	if flags.ServeAddr != "" {
		return server.NewWSServer(svc, zlog).Run(flags.ServeAddr)
	}

	return chatLoop(ctx, svc, cfg.UI.Streaming)
}

func chatLoop(ctx context.Context, svc *assistant.Service, streaming bool) error {
	sess := svc.CreateSession("")

	color.Cyan("\nChat with your knowledge base (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.ToLower(query) == "exit" {
			break
		}

		if streaming {
			assistantPrompt("\nAssistant: ")
			first := true
			spinner := getSpinner(" Thinking...")
			opts := types.GenerateOptions{
				StreamFunc: func(chunk string) {
					if first {
						spinner.Finish()
						first = false
					}
					fmt.Print(chunk)
				},
			}
			reply, err := svc.SendMessage(ctx, query, sess.ID, opts)
			if first {
				// Canned replies are never streamed.
				spinner.Finish()
				if err == nil {
					fmt.Print(reply.Content)
				}
			}
			if err != nil {
				color.Red("\nError: %v", err)
			}
			fmt.Println()
		} else {
			spinner := getSpinner(" Generating response...")
			reply, err := svc.SendMessage(ctx, query, sess.ID, types.GenerateOptions{})
			spinner.Finish()
			if err != nil {
				color.Red("Error: %v", err)
				continue
			}
			assistantPrompt("\nAssistant: %s\n", reply.Content)
		}
	}

	return nil
}
