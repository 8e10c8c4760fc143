package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/oceaninsight/internal/config"
	"github.com/phrazzld/oceaninsight/internal/memory"
	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/platform/slots"
	"github.com/phrazzld/oceaninsight/internal/service"
	"github.com/phrazzld/oceaninsight/internal/store"
	"github.com/spf13/cobra"
)

// cliOptions holds the persistent flags shared by every command.
type cliOptions struct {
	storage  config.StorageConfig
	output   string
	logLevel string
}

// session is an opened collection. close must be called when done.
type session struct {
	svc    service.EntryService
	slots  store.SlotStore
	logger *slog.Logger
}

func (s *session) close() {
	if err := s.slots.Close(); err != nil {
		s.logger.Error("failed to close slot store", slog.String("error", err.Error()))
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "memoryctl",
		Short: "Manage Ocean Insight memory entries",
		Long: `memoryctl reads and edits the memory collection stored by the
Ocean Insight server. Storage settings come from OCEAN_* environment
variables, config.yaml or .env, and can be overridden with flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(opts.output); err != nil {
				return err
			}
			_, err := logger.ParseLevel(opts.logLevel)
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.storage.Backend, "backend", "", "storage backend: memory, file, sqlite, postgres or redis")
	flags.StringVar(&opts.storage.FileDir, "file-dir", "", "directory for the file backend")
	flags.StringVar(&opts.storage.SQLitePath, "sqlite-path", "", "database file for the sqlite backend")
	flags.StringVar(&opts.storage.DatabaseURL, "database-url", "", "connection URL for the postgres backend")
	flags.StringVar(&opts.storage.RedisURL, "redis-url", "", "connection URL for the redis backend")
	flags.StringVar(&opts.storage.Key, "key", "", "slot key the collection is stored under")
	flags.StringVarP(&opts.output, "output", "o", outputTable, "output format: table, json or yaml")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newAddCmd(opts),
		newEditCmd(opts),
		newShowCmd(opts),
		newListCmd(opts),
		newDeleteCmd(opts),
		newTagCmd(opts),
		newStatsCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
	)
	return root
}

// storageConfig merges flags that were set on the command line over the
// loaded configuration.
func (o *cliOptions) storageConfig(cmd *cobra.Command) (config.StorageConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.StorageConfig{}, err
	}
	merged := cfg.Storage

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("backend", &merged.Backend, o.storage.Backend)
	override("file-dir", &merged.FileDir, o.storage.FileDir)
	override("sqlite-path", &merged.SQLitePath, o.storage.SQLitePath)
	override("database-url", &merged.DatabaseURL, o.storage.DatabaseURL)
	override("redis-url", &merged.RedisURL, o.storage.RedisURL)
	override("key", &merged.Key, o.storage.Key)

	cfg.Storage = merged
	if err := config.Validate(cfg); err != nil {
		return config.StorageConfig{}, err
	}
	return merged, nil
}

// open loads the collection from the configured backend. A corrupt or
// unreadable collection is reported on stderr and the session starts empty.
func (o *cliOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, err := o.storageConfig(cmd)
	if err != nil {
		return nil, err
	}

	l := logger.NewJSONLogger(cmd.ErrOrStderr(), o.logLevel)
	ctx := cmd.Context()

	slotStore, err := slots.Open(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	s := &session{slots: slotStore, logger: l}

	ms, err := memory.New(slotStore, memory.WithKey(cfg.Key), memory.WithLogger(l))
	if err != nil {
		s.close()
		return nil, err
	}
	if err := ms.Load(ctx); err != nil {
		if !errors.Is(err, memory.ErrCorruptData) && !errors.Is(err, memory.ErrPersistence) {
			s.close()
			return nil, err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: starting with an empty collection: %v\n", err)
	}

	s.svc, err = service.NewEntryService(ms, l)
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

// checkWrite turns a persistence warning into a message on w and reports
// any other error.
func checkWrite(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if service.IsPersistenceWarning(err) {
		fmt.Fprintf(w, "warning: change applied but not persisted: %v\n", err)
		return nil
	}
	return err
}
