package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/cooc"
)

func (c *CLI) newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <features-dir>",
		Short: "Check stored features against a direct window scan of the corpus",
		Args:  cobra.ExactArgs(1),
		Example: `  cooc verify features -i data --verify-samples 500
  cooc verify features -i corpus.tsv --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			f, err := cooc.Load(args[0])
			if err != nil {
				return err
			}
			corpus, err := loadCorpus(cfg)
			if err != nil {
				return err
			}
			samples := cfg.VerifySamples
			if samples == 0 {
				samples = 100
			}
			slog.Info("Verifying features", "path", args[0], "samples", samples, "seed", cfg.Seed)
			res, err := cooc.Verify(f, corpus.Tokens, corpus.Groups, &cooc.VerifyConfig{
				Samples: samples,
				Seed:    cfg.Seed,
			})
			if err != nil {
				return err
			}
			output, _ := json.MarshalIndent(res, "", "  ")
			fmt.Fprintln(c.stdout, string(output))
			if !res.OK() {
				return fmt.Errorf("verification failed: %d of %d positions differ", res.Failed, res.Positions)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringP("input", "i", "", `Corpus the features were built from (data folder, TSV file or "-")`)
	fs.String("input-kind", "auto", "Input kind: auto, folder or tsv")
	fs.String("group-by", "document", "Data folder grouping: document, domain or field")
	fs.Int("verify-samples", 0, "Number of (group, category) pairs to check (default 100)")
	fs.Uint64("seed", 1, "Sampling seed")
	return cmd
}
