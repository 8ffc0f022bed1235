package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forPelevin/visecut/internal/domain/phonemes"
	"github.com/forPelevin/visecut/internal/domain/viseme"
	"github.com/forPelevin/visecut/internal/pipeline"
	"github.com/forPelevin/visecut/internal/ports/adapters/cmudict"
	"github.com/forPelevin/visecut/internal/ports/adapters/sqlitedict"
)

const defaultDictDB = ".cache/dict/cmudict.db"

func newDictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage the pronunciation dictionary",
	}
	cmd.AddCommand(newDictImportCommand(), newDictLookupCommand())
	return cmd
}

func newDictImportCommand() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import <cmudict-file>",
		Short: "Load a CMU dictionary text file into a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = defaultDictDB
				if pipeline.IsSQLitePath(settings.Dictionary) {
					dbPath = settings.Dictionary
				}
			}

			d, err := cmudict.Load(args[0])
			if err != nil {
				return err
			}
			log.Info().Int("words", d.Len()).Str("source", args[0]).Msg("parsed dictionary")

			if err := ensureParentDir(dbPath); err != nil {
				return err
			}
			st, err := sqlitedict.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Import(cmd.Context(), d)
			if err != nil {
				return fmt.Errorf("import dictionary: %w", err)
			}
			total, err := st.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d words into %s (%d total)\n", n, dbPath, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Target database (default "+defaultDictDB+")")
	return cmd
}

func newDictLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <word>...",
		Short: "Show the phonemes and visemes a word resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			dict, closeDict, err := pipeline.OpenDictionary(cmd.Context(), settings.Dictionary)
			if err != nil {
				return err
			}
			defer func() { _ = closeDict() }()

			res := phonemes.NewResolver(dict)
			rows := make([][]string, 0, len(args))
			for _, w := range args {
				seq, err := res.Resolve(cmd.Context(), w)
				if err != nil {
					return err
				}
				if len(seq) == 0 {
					rows = append(rows, []string{w, "-", string(viseme.Sil)})
					continue
				}
				vis := make([]string, len(seq))
				for i, p := range seq {
					if settings.StripStress {
						p = viseme.StripStress(p)
					}
					vis[i] = string(viseme.Lookup(p))
				}
				rows = append(rows, []string{w, strings.Join(seq, " "), strings.Join(vis, " ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Word", "Phonemes", "Visemes"}, rows, nil))
			return nil
		},
	}
}
