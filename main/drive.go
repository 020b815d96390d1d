package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"gsuitetool/internal/gdrive"
	"gsuitetool/internal/selector"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// isTerminal reports whether fd is an interactive terminal.
var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newDriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Browse and upload to Google Drive",
	}

	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newFoldersCmd())
	cmd.AddCommand(newUploadCmd())
	cmd.AddCommand(newMkdirCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "path <folder-id>",
		Short: "Print the full path of a folder",
		Args:  cobra.ExactArgs(1),
		RunE:  runPath,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "meta <file-id>",
		Short: "Print every metadata field of a file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runMeta,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "url-to-id <folder-url>",
		Short: "Extract the folder ID from a Drive folder link",
		Args:  cobra.ExactArgs(1),
		RunE:  runURLToID,
	})
	cmd.AddCommand(newSelectUploadCmd())

	return cmd
}

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [folder-id]",
		Short: "List the files (not folders) in a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLs,
	}
}

func newFoldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folders [parent-id]",
		Short: "List the folders inside a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFolders,
	}
}

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <local-path>",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}
	cmd.Flags().String("name", "", "remote file name (default: local base name)")
	cmd.Flags().String("parent", "", "destination folder ID (default: configured folder)")
	return cmd
}

func newMkdirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE:  runMkdir,
	}
	cmd.Flags().String("parent", "", "parent folder ID (default: configured folder)")
	return cmd
}

func newSelectUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-upload <local-path>",
		Short: "Pick a destination folder interactively and upload a file there",
		Args:  cobra.ExactArgs(1),
		RunE:  runSelectUpload,
	}
	cmd.Flags().String("name", "", "remote file name (default: local base name)")
	cmd.Flags().String("start", "", "folder ID to start browsing from (default: configured folder)")
	return cmd
}

// folderArg returns the folder named on the command line, then the configured default,
// then the Drive root.
func folderArg(args []string, svc *gdrive.Service) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if id := svc.DefaultFolder(); id != "" {
		return id
	}
	return "root"
}

func runLs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := a.drive(cmd.Context())
	if err != nil {
		return err
	}

	files, err := svc.ListFilesInFolder(cmd.Context(), folderArg(args, svc))
	if err != nil {
		return err
	}
	return printFiles(cmd.OutOrStdout(), files)
}

func runFolders(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := a.drive(cmd.Context())
	if err != nil {
		return err
	}

	var parent string
	if len(args) > 0 {
		parent = args[0]
	}
	folders, err := svc.ListFolders(cmd.Context(), parent)
	if err != nil {
		return err
	}
	return printFiles(cmd.OutOrStdout(), folders)
}

func runUpload(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	parent, _ := cmd.Flags().GetString("parent")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := a.drive(cmd.Context())
	if err != nil {
		return err
	}

	info, err := svc.UploadFile(cmd.Context(), args[0], name, parent)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s)\n", info.Name, info.ID)
	return nil
}

func runMkdir(cmd *cobra.Command, args []string) error {
	parent, _ := cmd.Flags().GetString("parent")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := a.drive(cmd.Context())
	if err != nil {
		return err
	}

	info, err := svc.CreateFolder(cmd.Context(), args[0], parent)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), info.ID)
	return nil
}

func runPath(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := a.drive(cmd.Context())
	if err != nil {
		return err
	}

	path, err := svc.GetFolderPath(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runMeta(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := a.drive(cmd.Context())
	if err != nil {
		return err
	}

	meta, err := svc.GetFileMetadata(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runURLToID(cmd *cobra.Command, args []string) error {
	id, err := gdrive.URLToID(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runSelectUpload(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdin.Fd()) {
		return errors.New("select-upload needs an interactive terminal on stdin")
	}

	name, _ := cmd.Flags().GetString("name")
	start, _ := cmd.Flags().GetString("start")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := a.drive(cmd.Context())
	if err != nil {
		return err
	}
	if start == "" {
		start = svc.DefaultFolder()
	}

	prompter := selector.NewTerminalPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	remote, err := selector.New(a.logger, svc, prompter, a.cfg.Drive.PathSeparator).
		SelectFolderAndUpload(cmd.Context(), args[0], name, start)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded to %s\n", remote)
	return nil
}
