// cmd/licensectl/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/config"
	"github.com/parlohq/licenser/internal/model"
	"github.com/parlohq/licenser/internal/repository"
	"github.com/parlohq/licenser/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	poolCreateCmd.Flags().Int("seats", 0, "Total seats (defaults to DEFAULT_TOTAL_SEATS)")
	poolCreateCmd.Flags().String("campaign", "", "Campaign code linked to this pool")

	poolMigrateCmd.Flags().Bool("dry-run", false, "Print what would be done without making changes")

	poolCmd.AddCommand(poolCreateCmd)
	poolCmd.AddCommand(poolListCmd)
	poolCmd.AddCommand(poolStatusCmd)
	poolCmd.AddCommand(poolSetSeatsCmd)
	poolCmd.AddCommand(poolReconcileCmd)
	poolCmd.AddCommand(poolMigrateCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(poolCmd)
}

var rootCmd = &cobra.Command{
	Use:   "licensectl",
	Short: "licensectl is a CLI tool for managing license pools",
	Long:  `licensectl is a CLI tool for migrating the schema and administering organization license pools.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations",
	Long:  `Create or update the database tables used by the license service.`,
	Run: func(cmd *cobra.Command, args []string) {
		db := mustOpenDatabase()

		if err := db.AutoMigrate(
			&model.Organization{},
			&model.LicenseManager{},
			&model.Allocation{},
			&model.VerificationLog{},
		); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}

		fmt.Println("Schema migrated successfully")
	},
}

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Manage organization license pools",
}

var poolCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a license pool for an organization",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		seats, _ := cmd.Flags().GetInt("seats")
		campaign, _ := cmd.Flags().GetString("campaign")

		pools := mustPoolService()
		ctx, cancel := commandContext()
		defer cancel()

		pool, err := pools.CreatePool(ctx, service.CreatePoolInput{
			Name:         args[0],
			CampaignCode: campaign,
			TotalSeats:   seats,
		})
		if err != nil {
			log.Fatalf("Failed to create pool: %v", err)
		}

		fmt.Printf("Created pool %s (%s) with %d seats, prefix %s\n",
			pool.Name, pool.ID, pool.TotalSeats, pool.LicensePrefix)
	},
}

var poolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pools currently accepting allocations",
	Run: func(cmd *cobra.Command, args []string) {
		pools := mustPoolService()
		ctx, cancel := commandContext()
		defer cancel()

		active, err := pools.ListActive(ctx)
		if err != nil {
			log.Fatalf("Failed to list pools: %v", err)
		}

		for _, org := range active {
			fmt.Printf("%s  %-30s  %d/%d seats\n", org.ID, org.Name, org.UsedSeats, org.TotalSeats)
		}
	},
}

var poolStatusCmd = &cobra.Command{
	Use:   "status [organization-id]",
	Short: "Show seat counts for a pool",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization ID: %v", err)
		}

		pools := mustPoolService()
		ctx, cancel := commandContext()
		defer cancel()

		status, err := pools.GetStatus(ctx, orgID)
		if err != nil {
			log.Fatalf("Failed to load pool: %v", err)
		}

		printStatus(status)
	},
}

var poolSetSeatsCmd = &cobra.Command{
	Use:   "set-seats [organization-id] [total]",
	Short: "Resize a pool's total seats",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization ID: %v", err)
		}
		var total int
		if _, err := fmt.Sscanf(args[1], "%d", &total); err != nil {
			log.Fatalf("Invalid seat total: %v", err)
		}

		pools := mustPoolService()
		ctx, cancel := commandContext()
		defer cancel()

		status, err := pools.SetTotalSeats(ctx, orgID, total)
		if err != nil {
			log.Fatalf("Failed to resize pool: %v", err)
		}

		printStatus(status)
	},
}

var poolReconcileCmd = &cobra.Command{
	Use:   "reconcile [organization-id]",
	Short: "Recompute seat counts from allocation records",
	Long:  `Recount active allocations and rewrite the pool's used and available seats. Meant for drift repair after manual database changes.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization ID: %v", err)
		}

		pools := mustPoolService()
		ctx, cancel := commandContext()
		defer cancel()

		status, err := pools.Reconcile(ctx, orgID)
		if err != nil {
			log.Fatalf("Failed to reconcile pool: %v", err)
		}

		printStatus(status)
	},
}

// legacyLicense mirrors the historical organization_licenses table, where
// pool state lived outside the organization record.
type legacyLicense struct {
	OrganizationID uuid.UUID `gorm:"column:organization_id"`
	TotalSeats     int       `gorm:"column:total_seats"`
	UsedSeats      int       `gorm:"column:used_seats"`
	LicensePrefix  string    `gorm:"column:license_prefix"`
	SeriesCounter  int       `gorm:"column:series_counter"`
}

var poolMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Fold legacy organization_licenses rows into organizations",
	Long:  `Copy seat counts, prefixes and series counters from the historical organization_licenses table onto the organization records, so each organization carries its own pool.`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		db := mustOpenDatabase()
		ctx, cancel := commandContext()
		defer cancel()

		var legacy []legacyLicense
		if err := db.WithContext(ctx).Table("organization_licenses").Find(&legacy).Error; err != nil {
			log.Fatalf("Failed to read legacy licenses: %v", err)
		}

		migrated, skipped := 0, 0
		for _, row := range legacy {
			var org model.Organization
			if err := db.WithContext(ctx).First(&org, "id = ?", row.OrganizationID).Error; err != nil {
				fmt.Printf("skipping %s: organization not found\n", row.OrganizationID)
				skipped++
				continue
			}

			org.TotalSeats = row.TotalSeats
			org.UsedSeats = row.UsedSeats
			org.AvailableSeats = row.TotalSeats - row.UsedSeats
			if row.LicensePrefix != "" {
				org.LicensePrefix = row.LicensePrefix
			}
			// Never rewind a series that has already advanced.
			if row.SeriesCounter > org.SeriesCounter {
				org.SeriesCounter = row.SeriesCounter
			}

			if dryRun {
				fmt.Printf("would migrate %s: %d/%d seats, prefix %s, series %d\n",
					org.ID, org.UsedSeats, org.TotalSeats, org.LicensePrefix, org.SeriesCounter)
				migrated++
				continue
			}

			if err := db.WithContext(ctx).Save(&org).Error; err != nil {
				log.Fatalf("Failed to migrate organization %s: %v", org.ID, err)
			}
			migrated++
		}

		fmt.Printf("Migrated %d pools, skipped %d\n", migrated, skipped)
	},
}

func printStatus(status *service.PoolStatus) {
	fmt.Printf("Pool %s (%s)\n", status.Name, status.OrganizationID)
	fmt.Printf("  status:    %s\n", status.Status)
	fmt.Printf("  total:     %d\n", status.TotalSeats)
	fmt.Printf("  used:      %d\n", status.UsedSeats)
	fmt.Printf("  available: %d\n", status.AvailableSeats)
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func mustPoolService() *service.PoolService {
	cfg := config.Load()
	db := mustOpenDatabase()

	orgRepo := repository.NewOrganizationRepository(db)
	allocRepo := repository.NewAllocationRepository(db)

	return service.NewPoolService(orgRepo, allocRepo, nil, cfg)
}

func mustOpenDatabase() *gorm.DB {
	cfg := config.Load()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	logLevel := logger.Silent
	if verbose {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return db
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
