package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
)

func newLsCommand(a *app) *cobra.Command {
	var (
		pattern   string
		recursive bool
		dirs      bool
	)

	cmd := &cobra.Command{
		Use:   "ls [directory]",
		Short: "List files or directories",
		Long:  "List the files (or, with --dirs, the directories) below a directory, filtered by a glob matched on the relative path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			p, err := a.fs.Directory(target)
			if err != nil {
				return err
			}
			d, err := a.fs.OpenDirectory(p)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			if dirs {
				found, err := d.Directories(pattern, recursive)
				if err != nil {
					return err
				}
				for _, sub := range found {
					fmt.Fprintf(out, "%s/\n", sub.RelativeString())
				}
				return nil
			}
			found, err := d.Files(pattern, recursive)
			if err != nil {
				return err
			}
			for _, f := range found {
				fmt.Fprintln(out, f.RelativeString())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Glob matched against the relative path (default: everything)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories, following directory links")
	cmd.Flags().BoolVarP(&dirs, "dirs", "d", false, "List directories instead of files")

	return cmd
}

func newTouchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "touch [file]...",
		Short: "Create files",
		Long:  "Create files and any missing parent directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				p, err := a.fs.File(arg)
				if err != nil {
					return err
				}
				f, err := a.fs.CreateFile(p, a.ifExists)
				if err != nil {
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newMkdirCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir [directory]...",
		Short: "Create directories",
		Long:  "Create directories and any missing parent directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				p, err := a.fs.Directory(arg)
				if err != nil {
					return err
				}
				d, err := a.fs.CreateDirectory(p, a.ifExists)
				if err != nil {
					return err
				}
				if err := d.Close(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newLnCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ln [target] [link]",
		Short: "Create a symbolic link",
		Long: `Create a symbolic link to an existing file or directory. The target is stored
as given, so a relative target is resolved from the link's directory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirTarget, err := a.fs.Directory(args[0])
			if err != nil {
				return err
			}
			t, err := a.fs.Type(dirTarget)
			if err != nil {
				return err
			}

			switch {
			case t.IsDirectory():
				target, err := a.fs.OpenDirectory(dirTarget)
				if err != nil {
					return err
				}
				defer target.Close()
				linkPath, err := a.fs.Directory(args[1])
				if err != nil {
					return err
				}
				link, err := a.fs.CreateDirectorySymlink(linkPath, target, a.ifExists)
				if err != nil {
					return err
				}
				return link.Close()

			case t.IsFile():
				filePath, err := a.fs.File(args[0])
				if err != nil {
					return err
				}
				target, err := a.fs.OpenFile(filePath)
				if err != nil {
					return err
				}
				defer target.Close()
				linkPath, err := a.fs.File(args[1])
				if err != nil {
					return err
				}
				link, err := a.fs.CreateFileSymlink(linkPath, target, a.ifExists)
				if err != nil {
					return err
				}
				return link.Close()
			}
			return core.NewError(core.ErrCodeNotFound, dirTarget.AbsoluteString(), nil)
		},
	}
}

func newRmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm [path]...",
		Short: "Delete files, directories or links",
		Long:  "Delete entries. Directories are removed with their contents; links are removed, never followed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				dir, err := a.fs.Directory(arg)
				if err != nil {
					return err
				}
				t, err := a.fs.Type(dir)
				if err != nil {
					return err
				}
				if t.Kind != core.KindFile {
					if err := a.fs.Delete(dir); err != nil {
						return err
					}
					continue
				}
				file, err := a.fs.File(arg)
				if err != nil {
					return err
				}
				if err := a.fs.Delete(file); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newCatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat [file]",
		Short: "Print a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.fs.File(args[0])
			if err != nil {
				return err
			}
			f, err := a.fs.OpenFile(p)
			if err != nil {
				return err
			}
			defer f.Close()
			data, err := f.ReadAll()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newReadlinkCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "readlink [link]",
		Short: "Print the destination stored in a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.fs.Directory(args[0])
			if err != nil {
				return err
			}
			dest, err := a.fs.ReadSymlink(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		},
	}
}

func newStatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat [path]...",
		Short: "Print the type of entries",
		Long:  "Print the type of each entry (file, directory, symlink(kind) or none) and, for files, the detected content type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				dir, err := a.fs.Directory(arg)
				if err != nil {
					return err
				}
				t, err := a.fs.Type(dir)
				if err != nil {
					return err
				}
				if !t.IsFile() || t.IsDangling() {
					fmt.Fprintf(out, "%s\t%s\n", arg, t)
					continue
				}
				p, err := a.fs.File(arg)
				if err != nil {
					return err
				}
				f, err := a.fs.OpenFile(p)
				if err != nil {
					return err
				}
				mime, err := f.Mimetype()
				f.Close()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", arg, t, mime)
			}
			return nil
		},
	}
}
