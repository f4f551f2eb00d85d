package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/goshape/internal/gen"
)

func newGenCmd() *cobra.Command {
	var typeName, pkg, out string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the Go type declaration of a descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if typeName == "" {
				return fmt.Errorf("--type is required")
			}
			d, err := loadSchema()
			if err != nil {
				return err
			}
			code, err := gen.RenderFile(pkg, []gen.TypeDef{{Name: typeName, Desc: d}})
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(code)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("mkdir: %w", err)
			}
			if err := os.WriteFile(out, code, 0o644); err != nil {
				return fmt.Errorf("write: %w", err)
			}
			logger.Info("generated", zap.String("type", typeName), zap.String("out", out))
			return nil
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "", "name of the generated type")
	cmd.Flags().StringVar(&pkg, "package", "main", "package clause of the generated file")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (stdout when empty)")
	return cmd
}
