package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/oceaninsight/internal/domain"
	"github.com/phrazzld/oceaninsight/internal/service"
	"github.com/spf13/cobra"
)

func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid entry id %q: %w", arg, err)
	}
	return id, nil
}

func newAddCmd(opts *cliOptions) *cobra.Command {
	var (
		params   service.CreateEntryParams
		category string
		status   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a memory entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			params.Category = domain.Category(category)
			params.Status = domain.EntryStatus(status)
			entry, err := s.svc.CreateEntry(cmd.Context(), params)
			if entry == nil {
				return err
			}
			if err := checkWrite(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			return printEntry(cmd.OutOrStdout(), opts.output, entry)
		},
	}

	cmd.Flags().StringVar(&params.Title, "title", "", "entry title")
	cmd.Flags().StringVar(&params.Content, "content", "", "entry content")
	cmd.Flags().StringSliceVar(&params.Tags, "tag", nil, "tag to attach; repeat or separate with commas")
	cmd.Flags().StringVar(&category, "category", "", "category (default interdisciplinary)")
	cmd.Flags().StringVar(&status, "status", "", "status (default draft)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newEditCmd(opts *cliOptions) *cobra.Command {
	var title, content, category, status string
	var tags []string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a memory entry",
		Long:  "Change fields of a memory entry. Only the flags given are applied; --tags replaces the whole tag list.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var params service.UpdateEntryParams
			flags := cmd.Flags()
			if flags.Changed("title") {
				params.Title = &title
			}
			if flags.Changed("content") {
				params.Content = &content
			}
			if flags.Changed("tags") {
				params.Tags = &tags
			}
			if flags.Changed("category") {
				c := domain.Category(category)
				params.Category = &c
			}
			if flags.Changed("status") {
				st := domain.EntryStatus(status)
				params.Status = &st
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			entry, err := s.svc.UpdateEntry(cmd.Context(), id, params)
			if entry == nil {
				return err
			}
			if err := checkWrite(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			return printEntry(cmd.OutOrStdout(), opts.output, entry)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "replacement tag list")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	return cmd
}

func newShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one memory entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			entry, err := s.svc.GetEntry(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printEntry(cmd.OutOrStdout(), opts.output, entry)
		},
	}
}

func newListCmd(opts *cliOptions) *cobra.Command {
	var q service.ListQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memory entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			entries, err := s.svc.ListEntries(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), opts.output, entries)
		},
	}

	cmd.Flags().StringVar(&q.Category, "category", "all", "only entries in this category")
	cmd.Flags().StringVar(&q.Status, "status", "all", "only entries with this status")
	cmd.Flags().StringVar(&q.Search, "search", "", "case-insensitive text in title, content or tags")
	cmd.Flags().StringVar(&q.Sort, "sort", "recency", "recency or alphabetical")
	return cmd
}

func newDeleteCmd(opts *cliOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a memory entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("refusing to delete without --yes")
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := checkWrite(cmd.ErrOrStderr(), s.svc.DeleteEntry(cmd.Context(), id)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

func newTagCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove tags on a memory entry",
	}

	type tagFunc func(svc service.EntryService, cmd *cobra.Command, id uuid.UUID, tag string) (*domain.MemoryEntry, error)
	run := func(apply tagFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			entry, err := apply(s.svc, cmd, id, args[1])
			if entry == nil {
				return err
			}
			if err := checkWrite(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			return printEntry(cmd.OutOrStdout(), opts.output, entry)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <id> <tag>",
			Short: "Add a tag; an existing tag is left alone",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(svc service.EntryService, cmd *cobra.Command, id uuid.UUID, tag string) (*domain.MemoryEntry, error) {
				return svc.AddTag(cmd.Context(), id, tag)
			}),
		},
		&cobra.Command{
			Use:     "rm <id> <tag>",
			Aliases: []string{"remove"},
			Short:   "Remove a tag",
			Args:    cobra.ExactArgs(2),
			RunE: run(func(svc service.EntryService, cmd *cobra.Command, id uuid.UUID, tag string) (*domain.MemoryEntry, error) {
				return svc.RemoveTag(cmd.Context(), id, tag)
			}),
		},
	)
	return cmd
}

func newStatsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count entries per category and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			st, err := s.svc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), opts.output, st)
		},
	}
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection in its persisted JSON form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			blob, err := s.svc.Export(cmd.Context())
			if err != nil {
				return err
			}
			if file == "" || file == "-" {
				_, err = cmd.OutOrStdout().Write(append(blob, '\n'))
				return err
			}
			return os.WriteFile(file, blob, 0o644)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "write to this file instead of stdout")
	return cmd
}

func newImportCmd(opts *cliOptions) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Load an exported collection",
		Long:  "Load an exported collection. Entries are merged by id unless --replace is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				blob []byte
				err  error
			)
			if args[0] == "-" {
				blob, err = io.ReadAll(cmd.InOrStdin())
			} else {
				blob, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read import: %w", err)
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			n, err := s.svc.Import(cmd.Context(), blob, replace)
			if err := checkWrite(cmd.ErrOrStderr(), err); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", n)
			return err
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace the collection instead of merging")
	return cmd
}
