package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Read and write spreadsheet ranges",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "read <spreadsheet-id> <range>",
		Short: "Print the values of a range, one row per line",
		Args:  cobra.ExactArgs(2),
		RunE:  runSheetsRead,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "write <spreadsheet-id> <range> <value>...",
		Short: "Write one row of values starting at range",
		Args:  cobra.MinimumNArgs(3),
		RunE:  runSheetsWrite,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "batch <spreadsheet-id> <range=v1,v2,...>...",
		Short: "Write several single-row ranges in one request",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runSheetsBatch,
	})

	return cmd
}

func runSheetsRead(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	client, err := a.sheets(cmd.Context())
	if err != nil {
		return err
	}

	rows, err := client.ReadRange(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
	}
	return nil
}

func runSheetsWrite(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	client, err := a.sheets(cmd.Context())
	if err != nil {
		return err
	}

	return client.UpdateRange(cmd.Context(), args[0], args[1], [][]interface{}{toRow(args[2:])})
}

func runSheetsBatch(cmd *cobra.Command, args []string) error {
	data, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	client, err := a.sheets(cmd.Context())
	if err != nil {
		return err
	}

	return client.BatchUpdate(cmd.Context(), args[0], data)
}

// parseAssignments turns "Sheet1!A1=a,b" arguments into range -> single-row values.
func parseAssignments(args []string) (map[string][][]interface{}, error) {
	data := make(map[string][][]interface{}, len(args))
	for _, arg := range args {
		rng, values, ok := strings.Cut(arg, "=")
		if !ok || rng == "" {
			return nil, fmt.Errorf("invalid assignment %q: want range=v1,v2", arg)
		}
		data[rng] = [][]interface{}{toRow(strings.Split(values, ","))}
	}
	return data, nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
