package persist

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/happyhackingspace/cooc/sparse"
)

const cooHeader = "row\tcol\tvalue"

func writeCOO(path string, m *sparse.Matrix) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, cooHeader)
	m.Each(func(row, col int, value int32) {
		fmt.Fprintf(w, "%d\t%d\t%d\n", row, col, value)
	})
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func readCOO(path string, rows, cols int) (*sparse.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := sparse.NewBuilder(rows, cols, 0)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if line == 1 && text == cooHeader {
			continue
		}
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: want 3 fields, got %d", ErrCorrupt, line, len(fields))
		}
		var nums [3]int64
		for i, field := range fields {
			nums[i], err = strconv.ParseInt(field, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrCorrupt, line, err)
			}
		}
		b.Add(int(nums[0]), int(nums[1]), int32(nums[2]))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	m, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return m, nil
}
