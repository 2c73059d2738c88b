package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"slices"

	"github.com/spf13/cobra"

	"github.com/krish-2325/memory-management-simulator/datarecording"
	"github.com/krish-2325/memory-management-simulator/tracing"
)

var reportCmd = &cobra.Command{
	Use:   "report [file.sqlite3]",
	Short: "Summarize a recorded trace.",
	Long: "`report [file]` lists the tables of a trace database. " +
		"`report [file] --table [name]` prints the rows of one table.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(args[0]); err != nil {
			log.Fatalf("Error opening trace: %v", err)
		}

		reader := datarecording.NewReader(args[0])
		defer reader.Close()

		tracing.MapTables(reader)
		reader.MapTable(datarecording.ExecTableName, datarecording.ExecInfo{})

		table, _ := cmd.Flags().GetString("table")
		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")

		var err error
		if table == "" {
			err = listTraceTables(cmd.Context(), os.Stdout, reader)
		} else {
			err = printTraceTable(cmd.Context(), os.Stdout, reader,
				table, kind, limit)
		}

		if err != nil {
			log.Fatalf("Error reading trace: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("table", "", "Print the rows of this table")
	reportCmd.Flags().String("kind", "", "Only print events of this kind")
	reportCmd.Flags().Int("limit", 50, "Maximum number of rows, 0 for all")
}

func listTraceTables(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
) error {
	stored, err := reader.StoredTables(ctx)
	if err != nil {
		return err
	}

	mapped := reader.ListTables()
	for _, name := range stored {
		if !slices.Contains(mapped, name) {
			fmt.Fprintf(w, "%-16s (unknown)\n", name)
			continue
		}

		_, count, err := reader.Query(ctx, name,
			datarecording.QueryParams{Limit: 1})
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%-16s %d rows\n", name, count)
	}

	return nil
}

func printTraceTable(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
	table, kind string,
	limit int,
) error {
	params := datarecording.QueryParams{Limit: limit}
	if table == datarecording.ExecTableName {
		if kind != "" {
			return fmt.Errorf("table %s has no event kind", table)
		}
	} else {
		params.OrderBy = "Seq"
	}

	if kind != "" {
		params.Where = "Kind = ?"
		params.Args = []any{kind}
	}

	rows, count, err := reader.Query(ctx, table, params)
	if err != nil {
		return err
	}

	for _, row := range rows {
		fmt.Fprintf(w, "%+v\n", reflect.ValueOf(row).Elem().Interface())
	}

	if len(rows) < count {
		fmt.Fprintf(w, "... %d of %d rows shown\n", len(rows), count)
	}

	return nil
}
