package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"csvdesk/internal/api"
	"csvdesk/internal/flow"
	"csvdesk/internal/render"
)

type uploadFlags struct {
	describe string
	download string
	analyze  bool
	validate bool
	markdown bool
}

func newUploadCmd(st *rootState) *cobra.Command {
	var opts uploadFlags
	cmd := &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a CSV file and preview the result",
		Long: `Uploads a CSV file and prints the preview table the backend returns.

The same invocation can open one column's description (--describe), save the
processed file (--download) and request analysis or validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, st, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.describe, "describe", "", "open this column's description panel")
	f.StringVar(&opts.download, "download", "", "save the processed CSV into this directory")
	f.BoolVar(&opts.analyze, "analyze", false, "request an analysis of the uploaded rows")
	f.BoolVar(&opts.validate, "validate", false, "request a validation of the uploaded rows")
	f.BoolVar(&opts.markdown, "markdown", false, "render the preview as Markdown")
	return cmd
}

func runUpload(cmd *cobra.Command, st *rootState, path string, opts uploadFlags) error {
	a, err := st.open()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	file, err := api.ReadFile(path)
	if err != nil {
		return err
	}
	nav := &flow.History{}
	up := flow.NewUpload(a.client, a.csv, nav)
	if err := up.HandleFile(ctx, &file); err != nil {
		return flowError(err, up.ErrorText())
	}

	downloadDir := opts.download
	if downloadDir == "" {
		downloadDir = st.cfg.DownloadDir
	}
	preview := flow.NewPreview(a.csv, a.client, flow.DirSaver{Dir: downloadDir}, nav)
	if opts.describe != "" {
		preview.Toggle(opts.describe)
	}
	mode := render.ASCII
	if opts.markdown {
		mode = render.Markdown
	}
	if err := preview.Render(out, mode); err != nil {
		return err
	}

	if opts.analyze || opts.validate {
		checks := flow.NewAnalysis(a.client, a.csv)
		if opts.analyze {
			r, err := checks.Analyze(ctx)
			if err != nil {
				return flowError(err, checks.ErrorText())
			}
			fmt.Fprintf(out, "\nAnalysis: %d rows, %d columns. %s\n", r.TotalRows, r.TotalColumns, r.Message)
		}
		if opts.validate {
			r, err := checks.Validate(ctx)
			if err != nil {
				return flowError(err, checks.ErrorText())
			}
			fmt.Fprintf(out, "\nValidation: has_data=%t, %d rows, %d columns. %s\n", r.HasData, r.TotalRows, r.TotalColumns, r.Message)
		}
	}

	if opts.download != "" {
		if err := preview.Download(ctx); err != nil {
			return flowError(err, preview.Alert())
		}
		fmt.Fprintf(out, "\nSaved %s to %s\n", preview.FileName(), opts.download)
	}
	return nil
}
