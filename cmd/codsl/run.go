package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/c360studio/codsl/codec"
	"github.com/c360studio/codsl/dsl"
	"github.com/c360studio/codsl/validator"
)

func runCmd() *cobra.Command {
	var (
		configPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "run <file.codsl>",
		Short: "Execute a CODSL program and print its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read program: %w", err)
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			return runProgram(cmd.Context(), cmd.OutOrStdout(), string(source), asJSON,
				validator.New(buildLLMClient(cfg, slog.Default())))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print operation results as JSON")

	return cmd
}

func runProgram(ctx context.Context, out io.Writer, source string, asJSON bool, v *validator.Validator) error {
	program, err := dsl.Execute(source)
	if err != nil {
		return err
	}

	if asJSON {
		return printResultsJSON(out, program)
	}

	names := make([]string, 0, len(program.Categories))
	for name := range program.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "Ontologies: %d\n", len(names))
	for _, name := range names {
		cat := program.Categories[name]
		fmt.Fprintf(out, "  %s: %d objects, %d morphisms\n", name, cat.ObjectCount(), cat.MorphismCount())
	}

	fmt.Fprintf(out, "Functors: %d\n", len(program.Functors))

	fmt.Fprintf(out, "Results: %d\n", len(program.ResultOrder))
	for _, name := range program.ResultOrder {
		cat := program.Results[name]
		fmt.Fprintf(out, "  %s: %d objects, %d morphisms\n", name, cat.ObjectCount(), cat.MorphismCount())
		for _, obj := range cat.Objects() {
			fmt.Fprintf(out, "    - %s\n", obj.Name)
		}
	}

	for _, req := range program.Validations {
		cat, ok := program.Results[req.Target]
		if !ok {
			cat, ok = program.Categories[req.Target]
		}
		if !ok {
			return fmt.Errorf("line %d: VALIDATE target %q is not a known ontology or result", req.Line, req.Target)
		}

		result := v.Validate(ctx, validator.Operation{Name: "program_result", Result: cat}, validator.Level(req.Level))
		fmt.Fprintf(out, "Validation of %s (%s): valid=%t confidence=%.2f\n",
			req.Target, req.Level, result.Valid, result.Confidence)
		for _, issue := range result.Issues {
			fmt.Fprintf(out, "  issue: %s\n", issue)
		}
	}

	return nil
}

func printResultsJSON(out io.Writer, program *dsl.Program) error {
	results := make([]codec.Category, 0, len(program.ResultOrder))
	for _, name := range program.ResultOrder {
		results = append(results, codec.EncodeCategory(program.Results[name]))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"results": results})
}
