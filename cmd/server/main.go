package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"summarizer-service/backend/internal/config"
	"summarizer-service/backend/internal/log"
	"summarizer-service/backend/internal/server"
	"summarizer-service/backend/internal/summarizer"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

type flagValues struct {
	host    string
	port    int
	backend string
	model   string
}

var flags flagValues

var rootCmd = &cobra.Command{
	Use:           "summarizer",
	Short:         "HTTP service that condenses text into a short summary",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize a file (or stdin) once and print the result",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		text, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		engine, err := loadEngine(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		summary, err := engine.Summarize(cmd.Context(), norm.NFC.String(text))
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), summary)
		return err
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.host, "host", "", "listen host (overrides HOST)")
	pf.IntVar(&flags.port, "port", 0, "listen port (overrides PORT)")
	pf.StringVar(&flags.backend, "backend", "", "summarization backend: huggingface, gemini, ollama, openai, lead")
	pf.StringVar(&flags.model, "model", "", "model name (overrides SUMMARIZER_MODEL)")

	rootCmd.AddCommand(summarizeCmd)
}

// loadConfig reads the environment and applies any flags the user set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg, flags)
	log.Init(cfg.IsDevelopment(), cfg.LogLevel)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, v flagValues) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("host") {
		cfg.Host = v.host
	}
	if changed("port") {
		cfg.Port = v.port
	}
	if changed("backend") {
		cfg.Backend = v.backend
	}
	if changed("model") {
		cfg.Model = v.model
	}
}

// readInput returns the named file's contents, or stdin when no file is given
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(b), nil
}

func loadEngine(ctx context.Context, cfg *config.Config) (*summarizer.Engine, error) {
	engine, err := summarizer.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := engine.Load(ctx); err != nil {
		return nil, err
	}
	return engine, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	log.Info().Str("env", cfg.Env).Str("backend", cfg.Backend).Msg("starting summarization service")

	engine, err := loadEngine(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg, engine)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("summarizer exited")
	}
}
