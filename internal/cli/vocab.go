package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/cooc/internal/vectorizer"
)

func (c *CLI) newVocabCommand() *cobra.Command {
	var minDF, maxSize int
	var stopWords bool
	var maxDigitRatio float64

	cmd := &cobra.Command{
		Use:   "vocab <output-file>",
		Short: "Build a category vocabulary from the most widespread corpus tokens",
		Args:  cobra.ExactArgs(1),
		Example: `  cooc vocab labels.txt -i data --min-df 3 --max-size 200 --stop-words --lowercase
  cooc vocab labels.json -i corpus.tsv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			corpus, err := loadCorpus(cfg)
			if err != nil {
				return err
			}

			fc := vectorizer.NewFrequencyCounter(minDF, maxSize, cfg.Lowercase, nil)
			if stopWords {
				fc.StopWords = vectorizer.EnglishStopWords()
			}
			fc.MaxDigitRatio = maxDigitRatio
			fc.Fit(corpus.Tokens, corpus.Groups)

			v, err := fc.Vocabulary()
			if err != nil {
				return fmt.Errorf("no term occurs in %d or more groups: %w", minDF, err)
			}
			if err := v.Save(args[0]); err != nil {
				return err
			}
			slog.Info("Vocabulary saved", "path", args[0], "labels", v.Size(), "groups", fc.Groups())
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringP("input", "i", "", `Data folder, group/token TSV file, or "-" for TSV on stdin`)
	fs.String("input-kind", "auto", "Input kind: auto, folder or tsv")
	fs.String("group-by", "document", "Data folder grouping: document, domain or field")
	fs.Bool("lowercase", false, "Lowercase tokens before counting")
	fs.IntVar(&minDF, "min-df", 2, "Minimum number of groups a term must occur in")
	fs.IntVar(&maxSize, "max-size", 0, "Keep at most this many labels (0 keeps all)")
	fs.BoolVar(&stopWords, "stop-words", false, "Drop English stop words")
	fs.Float64Var(&maxDigitRatio, "max-digit-ratio", 0.5, "Drop tokens whose digit ratio reaches this value (0 disables)")
	return cmd
}
