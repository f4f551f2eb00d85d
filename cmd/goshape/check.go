package main

import (
	"context"
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/decode"
	"github.com/reoring/goshape/source"
)

type checkOptions struct {
	unknown  string
	failFast bool
	print    bool
}

func newCheckCmd() *cobra.Command {
	o := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Validate JSON or YAML files against a descriptor",
		Long: `Decodes every document of every FILE with the descriptor given by --schema.
Reads standard input when no FILE is given or FILE is "-".

Example:
  goshape check --schema user.yaml users/*.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), o, args)
		},
	}
	cmd.Flags().StringVar(&o.unknown, "unknown", "strip", "unknown key policy: strip, strict or passthrough")
	cmd.Flags().BoolVar(&o.failFast, "fail-fast", false, "stop at the first issue of each document")
	cmd.Flags().BoolVar(&o.print, "print", false, "print the decoded value of valid documents")
	return cmd
}

func runCheck(ctx context.Context, out io.Writer, o *checkOptions, files []string) error {
	policy, ok := goshape.ParseUnknownPolicy(o.unknown)
	if !ok {
		return fmt.Errorf("invalid --unknown %q", o.unknown)
	}
	d, err := loadSchema()
	if err != nil {
		return err
	}
	dec, err := decode.Derive(d, decode.WithUnknown(policy))
	if err != nil {
		return fmt.Errorf("derive decoder: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = goshape.WithFailFast(ctx, o.failFast)
	if len(files) == 0 {
		files = []string{"-"}
	}

	failed := 0
	for _, f := range files {
		docs, err := source.ReadFile(f)
		if err != nil {
			logger.Error("read input", zap.String("file", f), zap.Error(err))
			fmt.Fprintf(out, "error %s: %v\n", f, err)
			failed++
			continue
		}
		for i, doc := range docs {
			name := f
			if len(docs) > 1 {
				name = fmt.Sprintf("%s#%d", f, i)
			}
			v, err := dec.Decode(ctx, doc)
			if err != nil {
				failed++
				reportIssues(out, name, err)
				continue
			}
			fmt.Fprintf(out, "ok %s\n", name)
			if o.print {
				fmt.Fprintf(out, "%# v\n", pretty.Formatter(v))
			}
		}
	}
	logger.Debug("check finished", zap.Int("files", len(files)), zap.Int("failed", failed))
	if failed > 0 {
		return errCheckFailed
	}
	return nil
}

func reportIssues(out io.Writer, name string, err error) {
	iss, ok := goshape.AsIssues(err)
	if !ok {
		fmt.Fprintf(out, "fail %s: %v\n", name, err)
		return
	}
	for _, it := range iss {
		writeIssue(out, name, it, "")
	}
}

func writeIssue(out io.Writer, name string, it goshape.Issue, indent string) {
	path := it.Path
	if path == "" {
		path = "/"
	}
	fmt.Fprintf(out, "%sfail %s %s %s: %s\n", indent, name, path, it.Code, it.Message)
	for i, vs := range it.Variants {
		fmt.Fprintf(out, "%s  variant %d:\n", indent, i)
		for _, sub := range vs {
			writeIssue(out, name, sub, indent+"    ")
		}
	}
}
