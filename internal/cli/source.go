package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/happyhackingspace/cooc/internal/config"
	"github.com/happyhackingspace/cooc/internal/storage"
	"github.com/happyhackingspace/cooc/vocab"
)

// loadConfig layers the config file, environment and every local flag the
// user set on cmd.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := make(map[string]any)
	// LocalFlags is a fresh set that never records Visit state; Changed
	// lives on the shared *pflag.Flag.
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			overrides[strings.ReplaceAll(f.Name, "-", "_")] = f.Value.String()
		}
	})
	cfg, err := config.Load(c.configPath, overrides)
	if err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded", "config", c.configPath, "overrides", len(overrides))
	return cfg, nil
}

// addInputFlags registers the flags shared by commands that read a corpus.
func addInputFlags(fs *pflag.FlagSet) {
	def := config.Default()
	fs.StringP("input", "i", "", `Data folder, group/token TSV file, or "-" for TSV on stdin`)
	fs.String("input-kind", def.InputKind, "Input kind: auto, folder or tsv")
	fs.String("group-by", def.GroupBy, "Data folder grouping: document, domain or field")
	fs.String("vocab", "", "Vocabulary file (default: categories from the data folder config.json)")
	fs.Bool("lowercase", def.Lowercase, "Match tokens to labels case-insensitively")
}

// loadCorpus reads the corpus named by cfg.
func loadCorpus(cfg *config.Config) (*storage.Corpus, error) {
	start := time.Now()
	var (
		corpus *storage.Corpus
		err    error
	)
	if cfg.Input == "-" {
		if isStdinTerminal() {
			return nil, fmt.Errorf("no input: pass --input or pipe a TSV corpus")
		}
		slog.Debug("Reading corpus from stdin")
		corpus, err = storage.ReadTSV(os.Stdin)
	} else {
		var kind string
		kind, err = cfg.ResolveInputKind()
		if err != nil {
			return nil, err
		}
		if kind == "folder" {
			opts := storage.DefaultIterOptions()
			opts.GroupBy = storage.GroupBy(cfg.GroupBy)
			corpus, err = storage.NewStorage(cfg.Input).LoadCorpus(opts)
		} else {
			corpus, err = storage.ReadTSVFile(cfg.Input)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	slog.Debug("Corpus loaded", "tokens", corpus.Len(), "documents", corpus.Documents, "duration", time.Since(start))
	return corpus, nil
}

// loadVocabulary reads cfg.Vocab, falling back to the categories listed in
// the data folder's config.json.
func loadVocabulary(cfg *config.Config) (*vocab.Vocabulary, error) {
	if cfg.Vocab != "" {
		return vocab.Load(cfg.Vocab)
	}
	if cfg.Input == "" || cfg.Input == "-" {
		return nil, fmt.Errorf("no vocabulary: pass --vocab")
	}
	kind, err := cfg.ResolveInputKind()
	if err != nil {
		return nil, err
	}
	if kind != "folder" {
		return nil, fmt.Errorf("no vocabulary: pass --vocab")
	}
	labels, err := storage.NewStorage(cfg.Input).GetCategories()
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return vocab.New(labels)
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
