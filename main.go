package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/litcircle/litcircle/config"
	"github.com/litcircle/litcircle/covers"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/seed"
	"github.com/litcircle/litcircle/server"
	"github.com/litcircle/litcircle/store"
	"github.com/litcircle/litcircle/store/db"
	"github.com/litcircle/litcircle/worker"
)

const greetingBanner = `
██      ██ ████████  ██████ ██ ██████   ██████ ██      ███████
██      ██    ██    ██      ██ ██   ██ ██      ██      ██
██      ██    ██    ██      ██ ██████  ██      ██      █████
██      ██    ██    ██      ██ ██   ██ ██      ██      ██
███████ ██    ██     ██████ ██ ██   ██  ██████ ███████ ███████
`

var (
	configFile string
	data       string
	host       string
	port       int

	seedCount     int
	seedBatchSize int
	seedClear     bool
	seedDryRun    bool

	validateForce  bool
	validateDryRun bool

	rootCmd = &cobra.Command{
		Use:   "litcircle",
		Short: "LitCircle is a book club management backend",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			s, err := openStore()
			if err != nil {
				log.Error("Error opening store", zap.Error(err))
				return
			}
			defer s.Close()

			coverPool := worker.NewCoverValidationPool(s, config.Opts.WorkerPoolSize)

			httpServer, err := server.StartServer(ctx, s, coverPool)
			if err != nil {
				log.Error("Error starting server", zap.Error(err))
				return
			}

			fmt.Print(greetingBanner)
			log.Info("Server started",
				zap.String("host", config.Opts.Host),
				zap.Int("port", config.Opts.Port))

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			log.Info("Shutting down")
			server.Shutdown(httpServer)
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with sample data",
		Run: func(cmd *cobra.Command, args []string) {
			s, err := openStore()
			if err != nil {
				log.Error("Error opening store", zap.Error(err))
				return
			}
			defer s.Close()

			seeder := seed.New(s, seed.Options{
				Count:     seedCount,
				BatchSize: seedBatchSize,
				Clear:     seedClear,
				DryRun:    seedDryRun,
			})
			if err := seeder.Run(); err != nil {
				log.Error("Error seeding database", zap.Error(err))
			}
		},
	}

	validateCoversCmd = &cobra.Command{
		Use:   "validate-covers",
		Short: "Re-validate every stored book cover",
		Run: func(cmd *cobra.Command, args []string) {
			s, err := openStore()
			if err != nil {
				log.Error("Error opening store", zap.Error(err))
				return
			}
			defer s.Close()

			if err := validateCovers(s); err != nil {
				log.Error("Error validating covers", zap.Error(err))
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a config file")
	rootCmd.PersistentFlags().StringVarP(&data, "data", "d", "", "data directory")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "address to bind to")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 0, "port to listen on")

	seedCmd.Flags().IntVar(&seedCount, "count", 20, "how many users and books to create")
	seedCmd.Flags().IntVar(&seedBatchSize, "batch-size", 50, "records between progress reports")
	seedCmd.Flags().BoolVar(&seedClear, "clear", false, "delete existing data first")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "report without writing")

	validateCoversCmd.Flags().BoolVar(&validateForce, "force", false, "re-validate already stamped images")
	validateCoversCmd.Flags().BoolVar(&validateDryRun, "dry-run", false, "report without writing")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(validateCoversCmd)
}

// openStore loads config, initializes logging, opens the database and runs
// pending migrations. Every subcommand starts here.
func openStore() (*store.Store, error) {
	config.GetDefaultOptions()
	if configFile != "" {
		if _, err := config.ParseFile(configFile); err != nil {
			return nil, err
		}
	}
	if data != "" {
		config.Opts.Data = data
	}
	if host != "" {
		config.Opts.Host = host
	}
	if port != 0 {
		config.Opts.Port = port
	}
	if _, err := config.GetConfig(); err != nil {
		return nil, err
	}

	log.Logger = log.NewLogger()

	database, err := db.NewDB()
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(context.Background()); err != nil {
		return nil, err
	}

	s := store.NewStore(database.DB)
	if err := s.Ping(); err != nil {
		return nil, err
	}
	return s, nil
}

func validateCovers(s *store.Store) error {
	validator := covers.NewValidator()
	ctx := context.Background()
	checked, replaced, skipped := 0, 0, 0

	if err := validateBookCovers(ctx, s, validator, &checked, &replaced, &skipped); err != nil {
		return err
	}
	if err := validateClubImages(ctx, s, validator, &checked, &replaced, &skipped); err != nil {
		return err
	}
	if err := validateUserImages(ctx, s, validator, &checked, &skipped); err != nil {
		return err
	}

	log.Info("Cover validation finished",
		zap.Int("checked", checked),
		zap.Int("replaced", replaced),
		zap.Int("skipped", skipped),
		zap.Bool("dry_run", validateDryRun))
	return nil
}

func validateBookCovers(ctx context.Context, s *store.Store, validator *covers.Validator, checked, replaced, skipped *int) error {
	pageSize := 100
	offset := 0
	for {
		books, err := s.ListBooks(&model.FindBook{Offset: &offset, Limit: &pageSize})
		if err != nil {
			return err
		}
		if len(books) == 0 {
			return nil
		}

		for _, book := range books {
			if book.ImageUpdatedTs != 0 && !validateForce {
				*skipped++
				continue
			}
			candidates := covers.FetchCoverURLs(book)
			if len(candidates) == 0 {
				continue
			}
			*checked++
			if validateDryRun {
				continue
			}

			validated := false
			for _, url := range candidates {
				if err := validator.Validate(ctx, url); err != nil {
					continue
				}
				if url != book.ImageURL {
					if err := s.SetBookImageURL(book.ID, url); err != nil {
						return err
					}
				}
				if err := s.StampBookImageValidated(book.ID); err != nil {
					return err
				}
				validated = true
				break
			}
			if !validated {
				*replaced++
				if err := s.SetBookImageURL(book.ID, config.Opts.CoverPlaceholderURL); err != nil {
					return err
				}
			}
		}
		offset += len(books)
	}
}

func validateClubImages(ctx context.Context, s *store.Store, validator *covers.Validator, checked, replaced, skipped *int) error {
	clubs, err := s.ListClubs(&model.FindClub{})
	if err != nil {
		return err
	}
	for _, club := range clubs {
		if club.ImageURL == "" {
			continue
		}
		if club.ImageUpdatedTs != 0 && !validateForce {
			*skipped++
			continue
		}
		*checked++
		if validateDryRun {
			continue
		}
		if err := validator.Validate(ctx, club.ImageURL); err != nil {
			*replaced++
			if err := s.SetClubImageURL(club.ID, config.Opts.CoverPlaceholderURL); err != nil {
				return err
			}
			continue
		}
		if err := s.StampClubImageValidated(club.ID); err != nil {
			return err
		}
	}
	return nil
}

func validateUserImages(ctx context.Context, s *store.Store, validator *covers.Validator, checked, skipped *int) error {
	users, err := s.ListUsers(&model.FindUser{})
	if err != nil {
		return err
	}
	for _, user := range users {
		if user.ImageURL == "" {
			continue
		}
		if user.ImageUpdatedTs != 0 && !validateForce {
			*skipped++
			continue
		}
		*checked++
		if validateDryRun {
			continue
		}
		// A dead avatar is left alone; only the stamp records validity.
		if err := validator.Validate(ctx, user.ImageURL); err != nil {
			log.Warn("Profile image failed validation",
				zap.Int32("user_id", user.ID),
				zap.String("image_url", user.ImageURL),
				zap.Error(err))
			continue
		}
		if err := s.StampUserImageValidated(user.ID); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
