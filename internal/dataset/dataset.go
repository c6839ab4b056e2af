// Package dataset reads and writes knapsack instances stored as a family of
// plain-text files sharing a prefix:
//
//	<prefix>_c.txt  capacity
//	<prefix>_w.txt  item sizes, one per line
//	<prefix>_p.txt  item values, one per line
//	<prefix>_s.txt  optional known optimal selection, 0/1 per line
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"knapsack/internal/knapsack"
)

var ErrIncompleteDataset = errors.New("dataset is incomplete")

const (
	suffixCapacity = "_c.txt"
	suffixSizes    = "_w.txt"
	suffixValues   = "_p.txt"
	suffixOptimal  = "_s.txt"
)

// Files lists the paths of one dataset.
type Files struct {
	Capacity string
	Sizes    string
	Values   string
	Optimal  string // empty when no optimum is stored
}

func paths(dir, prefix string) Files {
	base := filepath.Join(dir, prefix)
	return Files{
		Capacity: base + suffixCapacity,
		Sizes:    base + suffixSizes,
		Values:   base + suffixValues,
		Optimal:  base + suffixOptimal,
	}
}

// Probe checks that the capacity, size and value files exist. The optimum
// file is optional; Files.Optimal is cleared when it is absent.
func Probe(dir, prefix string) (Files, error) {
	f := paths(dir, prefix)
	var missing []string
	for _, p := range []string{f.Capacity, f.Values, f.Sizes} {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, filepath.Base(p))
				continue
			}
			return Files{}, err
		}
	}
	if len(missing) > 0 {
		return Files{}, fmt.Errorf("%w: %s missing %s", ErrIncompleteDataset, prefix, strings.Join(missing, ", "))
	}
	if _, err := os.Stat(f.Optimal); err != nil {
		f.Optimal = ""
	}
	return f, nil
}

// Load reads a dataset and builds an instance with the given penalty offset
// fraction. The item count is taken from the size file.
func Load(dir, prefix string, offsetFraction float64) (*knapsack.Instance, error) {
	f, err := Probe(dir, prefix)
	if err != nil {
		return nil, err
	}

	caps, err := readInts(f.Capacity)
	if err != nil {
		return nil, err
	}
	if len(caps) == 0 {
		return nil, fmt.Errorf("%s: no capacity value", f.Capacity)
	}
	sizes, err := readInts(f.Sizes)
	if err != nil {
		return nil, err
	}
	values, err := readInts(f.Values)
	if err != nil {
		return nil, err
	}
	if len(values) < len(sizes) {
		return nil, fmt.Errorf("%s: %d values for %d sizes", f.Values, len(values), len(sizes))
	}

	items := make([]knapsack.Item, len(sizes))
	for i := range items {
		items[i] = knapsack.Item{Value: values[i], Size: sizes[i]}
	}
	inst, err := knapsack.NewInstance(caps[0], items, offsetFraction)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", prefix, err)
	}

	if f.Optimal == "" {
		return inst, nil
	}
	bits, err := readInts(f.Optimal)
	if err != nil {
		return nil, err
	}
	optimal := make(knapsack.Candidate, len(items))
	for i := 0; i < len(items) && i < len(bits); i++ {
		optimal[i] = bits[i] != 0
	}
	return inst.WithOptimal(optimal)
}

// Write stores inst under dir/prefix, including the optimum when known.
func Write(dir, prefix string, inst *knapsack.Instance) (Files, error) {
	if err := inst.Validate(); err != nil {
		return Files{}, err
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Files{}, err
		}
	}
	f := paths(dir, prefix)

	sizes := make([]int, len(inst.Items))
	values := make([]int, len(inst.Items))
	for i, it := range inst.Items {
		sizes[i] = it.Size
		values[i] = it.Value
	}
	if err := writeInts(f.Capacity, []int{inst.Capacity}); err != nil {
		return Files{}, err
	}
	if err := writeInts(f.Sizes, sizes); err != nil {
		return Files{}, err
	}
	if err := writeInts(f.Values, values); err != nil {
		return Files{}, err
	}

	if len(inst.Optimal) == 0 {
		f.Optimal = ""
		return f, nil
	}
	bits := make([]int, len(inst.Optimal))
	for i, on := range inst.Optimal {
		if on {
			bits[i] = 1
		}
	}
	if err := writeInts(f.Optimal, bits); err != nil {
		return Files{}, err
	}
	return f, nil
}

func readInts(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	out, err := parseInts(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func parseInts(r io.Reader) ([]int, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var out []int
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", len(out)+1, err)
		}
		out = append(out, v)
	}
	return out, sc.Err()
}

func writeInts(path string, values []int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	for _, v := range values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			file.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
