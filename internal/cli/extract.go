package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/cooc"
	"github.com/happyhackingspace/cooc/internal/config"
)

func (c *CLI) newExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Compute windowed co-occurrence features for a corpus",
		Example: `  # Data folder with index.json and config.json categories
  cooc extract -i data -w 5 -o features

  # Group/token TSV with an explicit vocabulary, stored in SQLite
  cooc extract -i corpus.tsv --vocab labels.txt --format sqlite

  # Group documents by registrable domain and spot-check the result
  cooc extract -i data --group-by domain --verify-samples 200

  # Pipe a TSV corpus
  cat corpus.tsv | cooc extract -i - --vocab labels.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.extract(cfg)
		},
	}

	def := config.Default()
	fs := cmd.Flags()
	addInputFlags(fs)
	fs.IntP("window", "w", def.Window, "Positions counted in each direction")
	fs.StringP("output", "o", def.Output, "Output directory")
	fs.String("format", def.Format, "Output format: csr, coo or sqlite")
	fs.Bool("sequential", def.Sequential, "Compute the two directions one after another")
	fs.Int("verify-samples", def.VerifySamples, "Number of (group, category) pairs to check against a direct scan")
	fs.Uint64("seed", def.Seed, "Seed for verification sampling")
	return cmd
}

func (c *CLI) extract(cfg *config.Config) error {
	v, err := loadVocabulary(cfg)
	if err != nil {
		return err
	}
	corpus, err := loadCorpus(cfg)
	if err != nil {
		return err
	}

	slog.Info("Extracting features",
		"input", cfg.Input,
		"tokens", corpus.Len(),
		"documents", corpus.Documents,
		"categories", v.Size(),
		"window", cfg.Window)
	start := time.Now()
	f, err := cooc.ExtractWithConfig(corpus.Tokens, corpus.Groups, v, &cooc.ExtractConfig{
		Window:     cfg.Window,
		Lowercase:  cfg.Lowercase,
		Sequential: cfg.Sequential,
	})
	if err != nil {
		return err
	}
	slog.Debug("Extraction completed", "duration", time.Since(start))

	if cfg.VerifySamples > 0 {
		res, err := cooc.Verify(f, corpus.Tokens, corpus.Groups, &cooc.VerifyConfig{
			Samples: cfg.VerifySamples,
			Seed:    cfg.Seed,
		})
		if err != nil {
			return err
		}
		if !res.OK() {
			return fmt.Errorf("verification failed: %d of %d positions differ", res.Failed, res.Positions)
		}
	}

	if err := f.Save(cfg.Output, cfg.Format); err != nil {
		return err
	}
	slog.Info("Features saved", "path", cfg.Output, "format", cfg.Format, "nnz", f.Matrix.Nnz(), "run", f.RunID)
	return nil
}
