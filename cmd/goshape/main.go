// Command goshape validates data files against descriptor documents and
// projects descriptors onto JSON Schema and Go types.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/descfile"
	"github.com/reoring/goshape/jsonschema"
	"github.com/reoring/goshape/source"
)

var (
	verbose      bool
	schemaPath   string
	schemaFormat string

	logger = zap.NewNop()
)

// errCheckFailed makes the process exit with status 1 without printing an
// extra error line; the failures were already reported.
var errCheckFailed = errors.New("validation failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "goshape",
		Short:         "Validate data against goshape descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg = zap.NewDevelopmentConfig()
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "descriptor document (YAML or JSON)")
	root.PersistentFlags().StringVar(&schemaFormat, "schema-format", "descriptor", "format of --schema: descriptor or jsonschema")
	root.AddCommand(newCheckCmd(), newJSONSchemaCmd(), newGenCmd())
	return root
}

func loadSchema() (goshape.Descriptor, error) {
	if schemaPath == "" {
		return nil, errors.New("--schema is required")
	}
	var (
		d   goshape.Descriptor
		err error
	)
	switch schemaFormat {
	case "descriptor":
		d, err = descfile.Load(schemaPath)
	case "jsonschema":
		d, err = importJSONSchema(schemaPath)
	default:
		err = fmt.Errorf("invalid --schema-format %q", schemaFormat)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("descriptor loaded", zap.String("path", schemaPath), zap.Stringer("descriptor", d))
	return d, nil
}

func importJSONSchema(path string) (goshape.Descriptor, error) {
	docs, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, ok := docs[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: JSON Schema must be an object", path)
	}
	d, diag, err := jsonschema.Import(doc)
	for _, w := range diag.Warnings {
		logger.Warn("jsonschema import", zap.String("path", path), zap.String("warning", w))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "goshape:", err)
		}
		os.Exit(1)
	}
}
