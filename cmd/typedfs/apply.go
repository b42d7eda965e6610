package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/typedfs/pkg/typedfs/layout"
)

func newApplyCommand(a *app) *cobra.Command {
	var (
		root     string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "apply [layout-file]",
		Short: "Create the tree described by a layout file",
		Long:  "Create the files, directories and links declared in a YAML layout file beneath a root directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layoutFile, err := a.fs.File(args[0])
			if err != nil {
				return err
			}
			f, err := a.fs.OpenFile(layoutFile)
			if err != nil {
				return err
			}
			defer f.Close()
			data, err := f.ReadAll()
			if err != nil {
				return fmt.Errorf("failed to read layout file %s: %w", layoutFile, err)
			}
			l, err := layout.Parse(data)
			if err != nil {
				return err
			}
			// The layout's own policy wins unless --if-exists was given.
			if cmd.Flags().Changed("if-exists") {
				l.IfExists = a.ifExists.String()
			}

			ordered, err := l.Order()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if validate {
				fmt.Fprintf(out, "Layout file is valid: %d entries\n", len(ordered))
				for i, e := range ordered {
					fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, e.Path, e.Type)
				}
				return nil
			}

			rootPath, err := a.fs.Directory(root)
			if err != nil {
				return err
			}
			if err := l.Apply(a.fs, rootPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "Applied %d entries to %s\n", len(ordered), rootPath.AbsoluteString())
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Root directory the layout is created in")
	cmd.Flags().BoolVar(&validate, "validate", false, "Only validate the layout and print the creation order")

	return cmd
}
