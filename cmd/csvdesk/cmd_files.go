package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"csvdesk/internal/api"
	"csvdesk/internal/render"
)

// maxHeadersWidth bounds the joined header list in file details.
const maxHeadersWidth = 120

func newFilesCmd(st *rootState) *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "files [name]",
		Short: "List stored files, or show one file's details",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := st.open()
			if err != nil {
				return err
			}
			defer a.Close()

			mode := render.ASCII
			if markdown {
				mode = render.Markdown
			}
			if len(args) == 1 {
				return showFileInfo(cmd, a, args[0], mode)
			}

			list, err := a.client.ListFiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("list files: %s", api.Message(err))
			}
			out := cmd.OutOrStdout()
			if len(list.Files) == 0 {
				fmt.Fprintln(out, "No files stored.")
				return nil
			}
			t := render.NewTable(mode)
			t.Header("Filename", "Size", "Uploaded")
			for _, f := range list.Files {
				t.Row(render.Truncate(f.Filename, render.DefaultMaxCellWidth), render.FmtBytes(f.Size), fmtEpoch(f.UploadedTime()))
			}
			fmt.Fprintln(out, t.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render tables as Markdown")
	return cmd
}

func showFileInfo(cmd *cobra.Command, a *app, name string, mode render.Mode) error {
	res, err := a.client.GetFileInfo(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("%s: %s", name, api.Message(err))
	}
	info := res.FileInfo
	if info == nil {
		return fmt.Errorf("%s: no details returned", name)
	}
	t := render.NewTable(mode)
	t.Header("Field", "Value")
	t.Row("Filename", info.Filename)
	t.Row("Size", render.FmtBytes(info.Size))
	t.Row("Uploaded", fmtEpoch(info.UploadedTime()))
	t.Row("Rows", fmt.Sprint(info.TotalRows))
	t.Row("Columns", fmt.Sprint(info.TotalColumns))
	t.Row("Headers", render.Truncate(strings.Join(info.Columns, ", "), maxHeadersWidth))
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}
