package main

import (
	"fmt"
	"gsuitetool/internal/gdrive"
	"io"
	"text/tabwriter"
	"time"
)

const (
	sizeKB = 1024
	sizeMB = 1024 * 1024
	sizeGB = 1024 * 1024 * 1024
)

func formatSize(bytes int64) string {
	switch {
	case bytes >= sizeGB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(sizeGB))
	case bytes >= sizeMB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(sizeMB))
	case bytes >= sizeKB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(sizeKB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// printFiles writes an aligned NAME/ID/SIZE/MODIFIED table. Folders get a trailing slash.
func printFiles(w io.Writer, files []gdrive.FileInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tSIZE\tMODIFIED")
	for _, f := range files {
		name, size := f.Name, formatSize(f.Size)
		if f.IsFolder() {
			name += "/"
			size = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, f.ID, size, formatTime(f.ModifiedTime))
	}
	return tw.Flush()
}
