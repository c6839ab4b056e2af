package dataset

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knapsack/internal/knapsack"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadReadsAllFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "p01_c.txt", "165\n")
	writeFile(t, dir, "p01_w.txt", "23\n31\n29\n44\n")
	writeFile(t, dir, "p01_p.txt", "92\n57\n49\n68\n")
	writeFile(t, dir, "p01_s.txt", "1\n1\n0\n1\n")

	inst, err := Load(dir, "p01", knapsack.DefaultOffsetFraction)
	require.NoError(t, err)

	assert.Equal(t, 165, inst.Capacity)
	require.Len(t, inst.Items, 4)
	assert.Equal(t, knapsack.Item{Value: 92, Size: 23}, inst.Items[0])
	assert.Equal(t, "1101", inst.Optimal.String())
	assert.InDelta(t, 92.0/23.0, inst.PenaltyRate, 1e-12)
	assert.InDelta(t, 0.3*266, inst.PenaltyOffset, 1e-9)
}

func TestLoadWithoutOptimum(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x_c.txt", "10")
	writeFile(t, dir, "x_w.txt", "1 2 3")
	writeFile(t, dir, "x_p.txt", "4 5 6 7")

	inst, err := Load(dir, "x", knapsack.DefaultOffsetFraction)
	require.NoError(t, err)
	assert.Len(t, inst.Items, 3, "item count follows the size file")
	assert.Nil(t, inst.Optimal)
}

func TestProbeReportsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "y_c.txt", "10")

	_, err := Probe(dir, "y")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteDataset))
	assert.Contains(t, err.Error(), "y_w.txt")
	assert.Contains(t, err.Error(), "y_p.txt")
}

func TestLoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "z_c.txt", "10")
	writeFile(t, dir, "z_w.txt", "1 2 three")
	writeFile(t, dir, "z_p.txt", "4 5 6")
	_, err := Load(dir, "z", knapsack.DefaultOffsetFraction)
	assert.Error(t, err)

	writeFile(t, dir, "z_w.txt", "1 2 3")
	writeFile(t, dir, "z_p.txt", "4 5")
	_, err = Load(dir, "z", knapsack.DefaultOffsetFraction)
	assert.Error(t, err)
}

func TestWriteThenLoad(t *testing.T) {
	inst, err := knapsack.ToyInstance(rand.New(rand.NewSource(8)), knapsack.DefaultOffsetFraction)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "sets")
	files, err := Write(dir, "gen", inst)
	require.NoError(t, err)
	assert.NotEmpty(t, files.Optimal)

	loaded, err := Load(dir, "gen", knapsack.DefaultOffsetFraction)
	require.NoError(t, err)
	assert.Equal(t, inst.Capacity, loaded.Capacity)
	assert.Equal(t, inst.Items, loaded.Items)
	assert.True(t, inst.Optimal.Equal(loaded.Optimal))
}

func TestParseInts(t *testing.T) {
	got, err := parseInts(strings.NewReader(" 1\n\n 2\t3 \n"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}
