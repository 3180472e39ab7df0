package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"backgen/internal/api"
	"backgen/internal/config"
	"backgen/internal/docs"
	"backgen/internal/generator"
	"backgen/internal/llm"
	"backgen/internal/logging"
	"backgen/internal/repository"
	"backgen/internal/schema"
	"backgen/internal/spec"
	"backgen/internal/translator"

	"github.com/spf13/cobra"
)

var (
	outputDir  string
	modelName  string
	serveAfter bool
)

var generateCmd = &cobra.Command{
	Use:   "generate \"<description>\"",
	Short: "Generate a backend model, its specification, and its documentation",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for generated artifacts")
	generateCmd.Flags().StringVarP(&modelName, "model", "m", "", "text-generation model to use")
	generateCmd.Flags().BoolVar(&serveAfter, "serve", false, "start the HTTP server after generation")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if modelName != "" {
		cfg.LLM.Model = modelName
	}
	if outputDir != "" {
		cfg.Storage.OutputDir = outputDir
	}

	logger := logging.NewLogger(verbose)
	defer logger.Sync()

	asm, err := buildAssembler(cfg, logger)
	if err != nil {
		return err
	}

	prompt := strings.Join(args, " ")
	ctx := cmd.Context()

	m, err := asm.Assemble(ctx, prompt)
	if err != nil {
		if api.IsInputError(err) {
			return fmt.Errorf("invalid input: %w", err)
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	store := repository.NewFileStore(cfg.Storage.OutputDir)
	if err := store.Save(ctx, m); err != nil {
		return err
	}

	specDoc, err := json.MarshalIndent(spec.Project(m), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode specification: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Storage.OutputDir, "openapi.json"), specDoc, 0o644); err != nil {
		return fmt.Errorf("failed to write specification: %w", err)
	}

	renderer := docs.NewRenderer(cfg.Docs.TemplateDir, cfg.Docs.Template, logger)
	html := renderer.Render(ctx, m)
	if err := os.WriteFile(filepath.Join(cfg.Storage.OutputDir, "docs.html"), []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write documentation: %w", err)
	}

	logger.Info("artifacts written",
		"dir", cfg.Storage.OutputDir,
		"name", m.Name,
		"nodes", m.NodeCount(),
		"workflows", m.WorkflowCount(),
		"endpoints", m.EndpointCount(),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%d endpoints) into %s\n", m.Name, m.EndpointCount(), cfg.Storage.OutputDir)

	if !serveAfter {
		return nil
	}

	state := generator.NewState()
	state.Install(m)
	srv := api.NewServer(asm, state, store, renderer, logger)
	return runServer(cfg, logger, srv, asm, state)
}

// buildAssembler wires the translation pipeline from configuration.
func buildAssembler(cfg *config.Config, logger *logging.Logger) (*generator.Assembler, error) {
	client := llm.NewHTTPClient(cfg.LLM.BaseURL, cfg.LLM.APIKey)
	tr := translator.New(client, cfg, logger)
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize schema validator: %w", err)
	}
	return generator.NewAssembler(tr, validator, logger), nil
}
