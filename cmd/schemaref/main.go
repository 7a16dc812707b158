package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/ybensacq/schemaref"
	"github.com/ybensacq/schemaref/schema"
)

var (
	// Version information
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "schemaref",
		Short: "Validate response documents against named structural schemas",
		Long: `schemaref checks that JSON documents (sequencer responses, captured
fixtures, broker payloads) conform to named structural schemas: required
fields present, kinds correct, extra fields tolerated.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildTime),
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	var (
		schemaName  string
		subPath     string
		schemaFiles []string
	)

	checkCmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check documents against a named schema",
		Long: `Check reads each file (or stdin when the argument is "-"), optionally
selects a sub-document with a gjson path, and matches it against the named
schema. Exits non-zero if any document fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			reg, err := buildRegistry(schemaFiles)
			if err != nil {
				return err
			}

			failures := 0
			for _, path := range args {
				ok, err := checkDocument(logger, reg, schemaName, subPath, path)
				if err != nil {
					return err
				}
				if !ok {
					failures++
				}
			}

			if failures > 0 {
				return fmt.Errorf("%d of %d documents failed validation", failures, len(args))
			}
			logger.Info("all documents conform", "schema", schemaName, "documents", len(args))
			return nil
		},
	}

	checkCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Schema name to check against")
	checkCmd.Flags().StringVarP(&subPath, "path", "p", "", "gjson path selecting the sub-document to check")
	checkCmd.Flags().StringArrayVar(&schemaFiles, "schemas", nil, "Additional schema document (repeatable)")
	checkCmd.MarkFlagRequired("schema")

	schemasCmd := &cobra.Command{
		Use:   "schemas",
		Short: "List registered schema names",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildRegistry(schemaFiles)
			if err != nil {
				return err
			}
			for _, name := range reg.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}

	schemasCmd.Flags().StringArrayVar(&schemaFiles, "schemas", nil, "Additional schema document (repeatable)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(schemasCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func buildRegistry(schemaFiles []string) (*schema.Registry, error) {
	var opts []schemaref.Option
	for _, path := range schemaFiles {
		opts = append(opts, schemaref.WithSchemaFile(path))
	}
	return schemaref.Initialize(opts...)
}

func checkDocument(logger *slog.Logger, reg *schema.Registry, schemaName, subPath, path string) (bool, error) {
	data, err := readDocument(path)
	if err != nil {
		return false, err
	}

	if subPath != "" {
		selected := gjson.GetBytes(data, subPath)
		if !selected.Exists() {
			return false, fmt.Errorf("%s: path %q not found in document", path, subPath)
		}
		data = []byte(selected.Raw)
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return false, fmt.Errorf("%s: invalid JSON: %w", path, err)
	}

	result, err := schema.MatchRef(value, schemaName, reg)
	if err != nil {
		return false, err
	}

	if result.OK {
		logger.Debug("document conforms", "file", path, "schema", schemaName)
		return true, nil
	}

	logger.Error("document does not conform",
		"file", path,
		"schema", schemaName,
		"mismatches", len(result.Mismatches),
	)
	for _, m := range result.Mismatches {
		fmt.Fprintf(os.Stderr, "  %s\n", m)
	}
	return false, nil
}

func readDocument(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}
