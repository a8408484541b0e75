package main

import (
	"fmt"

	"github.com/Ramsey-B/dahlia/pkg/seeder"
	"github.com/spf13/cobra"
)

var (
	seedStylists    int
	seedCelebrities int
	seedLinks       int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert synthetic stylists, celebrities and links",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedStylists < 0 || seedCelebrities < 0 || seedLinks < 0 {
			return fmt.Errorf("counts must not be negative")
		}
		if seedStylists == 0 && seedCelebrities == 0 && seedLinks == 0 {
			return fmt.Errorf("nothing to seed, pass --stylists, --celebs or --links")
		}

		ctx := cmd.Context()
		cfg, logger, db, err := setup(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		s := seeder.NewSeeder(db, logger, seeder.Config{
			ChunkSize:   cfg.SeedChunkSize,
			MaxAttempts: cfg.SeedMaxAttempts,
		})

		result, err := s.Seed(ctx, seeder.SeedRequest{
			Stylists:    seedStylists,
			Celebrities: seedCelebrities,
			Links:       seedLinks,
		})
		if err != nil {
			return err
		}

		cmd.Printf("Seeded %d stylists, %d celebrities, %d links (%d link batches) in %dms\n",
			result.StylistsCreated,
			result.CelebritiesCreated,
			result.LinksCreated,
			result.LinkAttempts,
			result.DurationMS,
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedStylists, "stylists", 0, "number of stylists to create")
	seedCmd.Flags().IntVar(&seedCelebrities, "celebs", 0, "number of celebrities to create")
	seedCmd.Flags().IntVar(&seedLinks, "links", 0, "target total number of links")
}
