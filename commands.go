package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"meascodec/internal/convert"
	"meascodec/internal/coverage"
	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/sos"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Decode a document and print its main fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			kind, msg, err := a.conv.Decode(data)
			if err != nil {
				return err
			}
			fields := convert.Summarize(kind, msg)
			if a.cfg.Output.JSON {
				return a.printJSON(fields)
			}
			t := a.newTable("Field", "Value")
			for _, f := range fields {
				t.AppendRow(table.Row{f.Name, f.Value})
			}
			t.Render()
			return nil
		},
	}
}

func (a *app) roundtripCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "roundtrip FILE",
		Short: "Decode a document and write it again with the configured options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, err := a.conv.Roundtrip(data)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = a.out.Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			a.logger.Info("document written", "path", output, "bytes", len(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

type validation struct {
	Path      string `json:"path"`
	Kind      string `json:"kind,omitempty"`
	Valid     bool   `json:"valid"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Decode documents and check their structure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]validation, 0, len(args))
			failed := 0
			for _, path := range args {
				res := validation{Path: path, Valid: true}
				data, err := os.ReadFile(path)
				if err == nil {
					res.Kind, _ = a.conv.Detect(data)
					err = a.conv.Validate(data)
				}
				if err != nil {
					failed++
					res.Valid = false
					res.ErrorKind = errs.KindOf(err).String()
					res.Error = err.Error()
				}
				results = append(results, res)
			}

			if a.cfg.Output.JSON {
				if err := a.printJSON(results); err != nil {
					return err
				}
			} else {
				t := a.newTable("File", "Kind", "Status", "Problem")
				for _, r := range results {
					status := "ok"
					if !r.Valid {
						status = r.ErrorKind
					}
					t.AppendRow(table.Row{r.Path, r.Kind, status, r.Error})
				}
				t.Render()
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents are invalid", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) batchCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Round-trip and check every .xml document in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := filepath.Glob(filepath.Join(args[0], "*.xml"))
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no .xml documents in %s", args[0])
			}
			slices.Sort(paths)

			a.logger.Info("batch started", "dir", args[0], "documents", len(paths), "workers", workers)
			results, err := a.conv.Batch(cmd.Context(), paths, workers)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			if a.cfg.Output.JSON {
				if err := a.printJSON(batchJSON(results)); err != nil {
					return err
				}
			} else {
				t := a.newTable("File", "Kind", "Bytes", "Duration", "Result")
				for _, r := range results {
					result := "ok"
					if r.Err != nil {
						result = r.Err.Error()
					}
					t.AppendRow(table.Row{filepath.Base(r.Path), r.Kind, r.Size, r.Duration.Round(time.Microsecond), result})
				}
				t.AppendFooter(table.Row{"", "", "", "failed", fmt.Sprintf("%d/%d", failed, len(results))})
				t.Render()
			}

			if err := a.writeMetrics(); err != nil {
				return err
			}
			a.logger.Info("batch finished", "documents", len(results), "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of documents processed in parallel")
	return cmd
}

func batchJSON(results []convert.Result) []validation {
	out := make([]validation, 0, len(results))
	for _, r := range results {
		v := validation{Path: r.Path, Kind: r.Kind, Valid: r.Err == nil}
		if r.Err != nil {
			v.ErrorKind = errs.KindOf(r.Err).String()
			v.Error = r.Err.Error()
		}
		out = append(out, v)
	}
	return out
}

func (a *app) exampleCmd() *cobra.Command {
	names := slices.Sorted(maps.Keys(exampleBuilders))
	return &cobra.Command{
		Use:       "example KIND",
		Short:     "Write a sample document: " + strings.Join(names, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			build, ok := exampleBuilders[args[0]]
			if !ok {
				return errors.New("unknown example " + args[0] + ", expected one of " + strings.Join(names, ", "))
			}
			msg, err := build()
			if err != nil {
				return err
			}
			out, err := msg.Marshal(a.cfg.WriteOptions()...)
			if err != nil {
				return err
			}
			_, err = a.out.Write(out)
			return err
		},
	}
}

func (a *app) kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the supported document root elements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Output.JSON {
				return a.printJSON(convert.Kinds())
			}
			for _, k := range convert.Kinds() {
				fmt.Fprintln(a.out, k)
			}
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	var (
		offerings     []string
		units         map[string]string
		featurePrefix string
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Convert a WFS multi-point coverage response into an InsertObservation request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			observations, err := coverage.Read(f, coverage.Options{Units: units, FeaturePrefix: featurePrefix})
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}
			req := sos.NewInsertObservationRequest()
			req.Offerings = offerings
			req.Observations = observations

			out, err := req.Marshal(a.cfg.WriteOptions()...)
			if err != nil {
				return err
			}
			a.metrics.ObserveDocument(convert.OpEncode, "sos:InsertObservation", len(out))
			a.logger.Info("coverage imported", "path", args[0], "observations", len(observations))
			if _, err := a.out.Write(out); err != nil {
				return err
			}
			return a.writeMetrics()
		},
	}
	cmd.Flags().StringSliceVar(&offerings, "offering", nil, "offering of the inserted observations")
	cmd.Flags().StringToStringVar(&units, "unit", nil, "unit of measure per range field, e.g. windspeedms=m/s")
	cmd.Flags().StringVar(&featurePrefix, "feature-prefix", "", "prefix for location identifiers in featureOfInterest")
	return cmd
}
