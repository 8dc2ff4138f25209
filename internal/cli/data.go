package cli

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (c *CLI) newDataCommand() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Download or pack corpus data folders (.tar.gz archives)",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	var downloadDataFolder string
	downloadCmd := &cobra.Command{
		Use:   "download <url-or-archive>",
		Short: "Fetch a corpus archive and unpack it into a data folder",
		Args:  cobra.ExactArgs(1),
		Example: `  cooc data download https://example.org/corpus.tar.gz
  cooc data download corpus.tar.gz --data-folder data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dataDownload(cmd.Context(), args[0], downloadDataFolder)
		},
	}
	downloadCmd.Flags().StringVar(&downloadDataFolder, "data-folder", "data", "Destination folder for corpus data")

	var packDataFolder string
	packCmd := &cobra.Command{
		Use:     "pack <archive>",
		Short:   "Pack a data folder into a .tar.gz archive",
		Args:    cobra.ExactArgs(1),
		Example: `  cooc data pack corpus.tar.gz --data-folder data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dataPack(packDataFolder, args[0])
		},
	}
	packCmd.Flags().StringVar(&packDataFolder, "data-folder", "data", "Source folder for corpus data")

	dataCmd.AddCommand(downloadCmd, packCmd)
	return dataCmd
}

func openArchive(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.Open(source)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download data: HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func dataDownload(ctx context.Context, source, dataFolder string) error {
	slog.Info("Fetching corpus data", "source", source)
	r, err := openArchive(ctx, source)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	if err := os.RemoveAll(dataFolder); err != nil {
		return fmt.Errorf("remove existing %s: %w", dataFolder, err)
	}
	count, size, err := unpackArchive(r, dataFolder)
	if err != nil {
		return err
	}
	slog.Info("Corpus data extracted", "files", count, "size", humanize.Bytes(uint64(size)), "folder", dataFolder)
	return nil
}

// unpackArchive extracts a gzipped tar into dataFolder. A leading "data/"
// component is replaced by dataFolder; entries escaping it are rejected.
func unpackArchive(r io.Reader, dataFolder string) (int, int64, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return 0, 0, fmt.Errorf("gzip reader: %w", err)
	}
	defer func() { _ = gr.Close() }()

	root := filepath.Clean(dataFolder)
	tr := tar.NewReader(gr)
	count := 0
	var size int64
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, size, fmt.Errorf("read tar: %w", err)
		}

		name := filepath.ToSlash(filepath.Clean(hdr.Name))
		name = strings.TrimPrefix(name, "data/")
		if name == "data" || name == "." {
			continue
		}
		target := filepath.Join(root, name)
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return count, size, fmt.Errorf("archive entry %q escapes %s", hdr.Name, dataFolder)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return count, size, fmt.Errorf("create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return count, size, fmt.Errorf("create parent dir: %w", err)
			}
			f, err := os.Create(target)
			if err != nil {
				return count, size, fmt.Errorf("create file %s: %w", target, err)
			}
			n, err := io.Copy(f, tr)
			if err != nil {
				_ = f.Close()
				return count, size, fmt.Errorf("write file %s: %w", target, err)
			}
			_ = f.Close()
			count++
			size += n
		}
	}
	return count, size, nil
}

func dataPack(dataFolder, archivePath string) error {
	slog.Info("Creating archive", "source", dataFolder, "dest", archivePath)
	tf, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", archivePath, err)
	}
	if err := packArchive(dataFolder, tf); err != nil {
		_ = tf.Close()
		return err
	}
	if err := tf.Close(); err != nil {
		return err
	}
	slog.Info("Archive created", "path", archivePath)
	return nil
}

// packArchive writes dataFolder as a gzipped tar whose entries live under
// "data/".
func packArchive(dataFolder string, w io.Writer) error {
	gw := gzip.NewWriter(w)
	tw := tar.NewWriter(gw)

	err := filepath.Walk(dataFolder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dataFolder, path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(filepath.Join("data", rel))
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		_ = tw.Close()
		_ = gw.Close()
		return fmt.Errorf("create archive: %w", err)
	}
	if err := tw.Close(); err != nil {
		_ = gw.Close()
		return fmt.Errorf("close tar: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("close gzip: %w", err)
	}
	return nil
}
