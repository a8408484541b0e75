package main

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/spf13/cobra"
)

var (
	verifyMinStylists    int
	verifyMinCelebrities int
	verifyMinLinks       int
)

var requiredColumns = map[string][]string{
	"stylists":          {"id", "full_name", "email", "phone", "instagram", "website", "created_at", "updated_at"},
	"celebrities":       {"id", "full_name", "industry", "created_at", "updated_at"},
	"stylist_celebrity": {"stylist_id", "celebrity_id", "notes"},
	"stylist_reps":      {"id", "stylist_id", "rep_name", "company", "rep_email", "rep_phone", "territory", "created_at", "updated_at"},
}

var requiredIndexes = map[string][]string{
	"stylists":          {"idx_stylists_full_name", "idx_stylists_updated_at"},
	"celebrities":       {"idx_celebrities_full_name", "idx_celebrities_industry"},
	"stylist_celebrity": {"idx_links_celebrity_stylist", "idx_links_stylist"},
	"stylist_reps":      {"idx_reps_stylist_id", "idx_reps_rep_name"},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the schema exists and row counts meet minimums",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, _, db, err := setup(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		failures := 0
		report := func(ok bool, format string, a ...any) {
			status := "ok"
			if !ok {
				status = "FAIL"
				failures++
			}
			cmd.Printf("[%s] %s\n", status, fmt.Sprintf(format, a...))
		}

		for table, columns := range requiredColumns {
			exists, err := tableExists(ctx, db, table)
			if err != nil {
				return err
			}
			report(exists, "table %s exists", table)
			if !exists {
				continue
			}

			for _, column := range columns {
				ok, err := columnExists(ctx, db, table, column)
				if err != nil {
					return err
				}
				report(ok, "column %s.%s exists", table, column)
			}

			for _, index := range requiredIndexes[table] {
				ok, err := indexExists(ctx, db, table, index)
				if err != nil {
					return err
				}
				report(ok, "index %s on %s exists", index, table)
			}
		}

		minimums := []struct {
			table string
			min   int
		}{
			{"stylists", verifyMinStylists},
			{"celebrities", verifyMinCelebrities},
			{"stylist_celebrity", verifyMinLinks},
		}
		for _, m := range minimums {
			if m.min <= 0 {
				continue
			}
			count, err := rowCount(ctx, db, m.table)
			if err != nil {
				return err
			}
			report(count >= m.min, "%s has %d rows (want at least %d)", m.table, count, m.min)
		}

		if failures > 0 {
			return fmt.Errorf("verification failed with %d problem(s)", failures)
		}

		cmd.Println("Verification passed")
		return nil
	},
}

func init() {
	verifyCmd.Flags().IntVar(&verifyMinStylists, "min-stylists", 0, "minimum number of stylist rows")
	verifyCmd.Flags().IntVar(&verifyMinCelebrities, "min-celebs", 0, "minimum number of celebrity rows")
	verifyCmd.Flags().IntVar(&verifyMinLinks, "min-links", 0, "minimum number of link rows")
}

func tableExists(ctx context.Context, db database.DB, table string) (bool, error) {
	var exists bool
	err := db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1)",
		table,
	)
	return exists, err
}

func columnExists(ctx context.Context, db database.DB, table, column string) (bool, error) {
	var exists bool
	err := db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2)",
		table, column,
	)
	return exists, err
}

func indexExists(ctx context.Context, db database.DB, table, index string) (bool, error) {
	var exists bool
	err := db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE schemaname = current_schema() AND tablename = $1 AND indexname = $2)",
		table, index,
	)
	return exists, err
}

func rowCount(ctx context.Context, db database.DB, table string) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	return count, err
}
