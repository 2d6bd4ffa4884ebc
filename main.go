package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tomoris/HDPLDA/hdplda"
	"github.com/tomoris/HDPLDA/random"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "hdplda",
		Short:   "Build and inspect HDP-LDA seating states",
		Version: version,
	}
	rootCmd.AddCommand(initCmd(), inspectCmd())
	return rootCmd
}

func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func initCmd() *cobra.Command {
	var (
		cfg      corpusConfig
		alpha    float64
		beta     float64
		gamma    float64
		seed     uint64
		top      int
		progress bool
		verbose  bool
		out      string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Seat a planted synthetic corpus and print the resulting topics",
		Example: `  hdplda init --docs 200 --vocab 500 --topics 5 --seed 1
  hdplda init --docs 50 --out state.json.zst`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(verbose)

			sents, err := plantedCorpus(cfg, random.New(seed))
			if err != nil {
				return fmt.Errorf("build corpus: %w", err)
			}
			dataContainer := hdplda.NewDataContainer(sents)
			def, err := dataContainer.ModelDefinition()
			if err != nil {
				return fmt.Errorf("model definition: %w", err)
			}
			logger.Info("Corpus ready", "docs", dataContainer.Size, "vocab", dataContainer.V())

			s, err := hdplda.NewState(def, alpha, beta, gamma, dataContainer.Docs, random.New(seed+1),
				hdplda.WithLogger(logger), hdplda.WithProgress(progress))
			if err != nil {
				return fmt.Errorf("build state: %w", err)
			}
			printState(cmd.OutOrStdout(), s, dataContainer.Word, top)

			if out != "" {
				if err := saveState(out, s); err != nil {
					return err
				}
				logger.Info("Saved state", "path", out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.docs, "docs", 100, "Number of documents")
	cmd.Flags().IntVar(&cfg.vocab, "vocab", 300, "Vocabulary size")
	cmd.Flags().IntVar(&cfg.length, "length", 50, "Terms per document")
	cmd.Flags().IntVar(&cfg.topics, "topics", 5, "Number of planted topics")
	cmd.Flags().Float64Var(&alpha, "alpha", 1.0, "Document-level concentration")
	cmd.Flags().Float64Var(&beta, "beta", 0.5, "Topic-word Dirichlet prior")
	cmd.Flags().Float64Var(&gamma, "gamma", 1.0, "Top-level concentration")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&top, "top", 8, "Words printed per topic")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar while seating")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().StringVar(&out, "out", "", "Write a snapshot to this path")
	return cmd
}

func inspectCmd() *cobra.Command {
	var (
		top     int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Load a snapshot, validate it and print its topics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(verbose)

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			defer f.Close()

			s, err := hdplda.Load(f, hdplda.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}
			printState(cmd.OutOrStdout(), s, termName, top)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 8, "Words printed per topic")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	return cmd
}

func saveState(path string, s *hdplda.State) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := s.Save(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}

// termName is used when the vocabulary is not at hand.
func termName(v int) string {
	return fmt.Sprintf("#%d", v)
}

func printState(w io.Writer, s *hdplda.State, word func(int) string, top int) {
	fmt.Fprintf(w, "entities %d  vocab %d  tables %d  topics %d  perplexity %.3f\n",
		s.NEntities(), s.NWords(), s.M(), s.NTopics(), s.Perplexity())

	phi := s.WordDistribution()
	for x, k := range s.Dishes() {
		terms := phi[x].Keys()
		sort.Slice(terms, func(a, b int) bool {
			pa, pb := phi[x].Get(terms[a]), phi[x].Get(terms[b])
			if pa != pb {
				return pa > pb
			}
			return terms[a] < terms[b]
		})
		if len(terms) > top {
			terms = terms[:top]
		}
		fmt.Fprintf(w, "topic %d  tables %d  terms %.0f:", k, s.TableCount(k), s.Nk(k)-s.Beta()*float64(s.NWords()))
		for _, v := range terms {
			fmt.Fprintf(w, " %s(%.3f)", word(v), phi[x].Get(v))
		}
		fmt.Fprintln(w)
	}
}
