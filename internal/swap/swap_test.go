package swap

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/invertome/hcr-prober/internal/prober"
)

var testAmps = map[string]prober.Amplifier{
	"B1": {Up: "GAGGAGGGCAGCAAACGG", Dn: "GAAGAGTCTTCCTTTACG", UpSpc: "AA", DnSpc: "TA"},
	"B2": {Up: "CCTCGTAAATCCTCATCA", Dn: "ATCATCCAGTAAACCGCC", UpSpc: "AA", DnSpc: "AA"},
}

// identity resolver: the test amplifier spacers carry no ambiguity
// codes
func noResolve(s string) string { return s }

func TestSwapSequenceUp(t *testing.T) {
	s, err := New(testAmps, "B2", noResolve)
	require.NoError(t, err)

	// a B1 up oligo: up initiator + spacer + 25 nt arm
	arm := "ATGCGTACGTTAGCATCGATGCATG"
	got, ok := s.SwapSequence(testAmps["B1"].Up + "AA" + arm)
	require.True(t, ok)
	assert.Equal(t, testAmps["B2"].Up+"AA"+arm, got)
}

func TestSwapSequenceDn(t *testing.T) {
	s, err := New(testAmps, "B2", noResolve)
	require.NoError(t, err)

	arm := "ATGCGTACGTTAGCATCGATGCATG"
	got, ok := s.SwapSequence(arm + "TA" + testAmps["B1"].Dn)
	require.True(t, ok)
	assert.Equal(t, arm+"AA"+testAmps["B2"].Dn, got)
}

func TestSwapSequenceUnknown(t *testing.T) {
	s, err := New(testAmps, "B2", noResolve)
	require.NoError(t, err)

	got, ok := s.SwapSequence("TTTTTTTTTT")
	assert.False(t, ok)
	assert.Equal(t, "TTTTTTTTTT", got)
}

func TestNewUnknownAmplifier(t *testing.T) {
	_, err := New(testAmps, "B99", noResolve)
	assert.Error(t, err)
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "shh_B1_order.xlsx")

	arm := "ATGCGTACGTTAGCATCGATGCATG"
	x := excelize.NewFile()
	sheet := x.GetSheetName(0)
	x.SetCellValue(sheet, "A1", "Pool name")
	x.SetCellValue(sheet, "B1", "Sequence")
	rows := []string{
		arm + "TA" + testAmps["B1"].Dn,
		testAmps["B1"].Up + "AA" + arm,
	}
	for i, seq := range rows {
		x.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), "B1_shh_PP1")
		x.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), seq)
	}
	require.NoError(t, x.SaveAs(in))
	require.NoError(t, x.Close())

	s, err := New(testAmps, "B2", noResolve)
	require.NoError(t, err)
	require.NoError(t, s.Run(in, dir))

	out, err := excelize.OpenFile(filepath.Join(dir, "shh_B1_order_swapped_to_B2.xlsx"))
	require.NoError(t, err)
	defer out.Close()

	outRows, err := out.GetRows(out.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, outRows, 3)
	assert.Equal(t, "B2_shh_PP1", outRows[1][0], "pool renamed to new amplifier")
	assert.Equal(t, arm+"AA"+testAmps["B2"].Dn, outRows[1][1])
	assert.Equal(t, testAmps["B2"].Up+"AA"+arm, outRows[2][1])
}

func TestFileSkipsShortRowsWithoutGaps(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sparse.xlsx")

	arm := "ATGCGTACGTTAGCATCGATGCATG"
	x := excelize.NewFile()
	sheet := x.GetSheetName(0)
	x.SetCellValue(sheet, "A1", "Pool name")
	x.SetCellValue(sheet, "B1", "Sequence")
	x.SetCellValue(sheet, "A2", "B1_shh_PP2")
	x.SetCellValue(sheet, "B2", testAmps["B1"].Up+"AA"+arm)
	// row 3 has a pool name but no sequence
	x.SetCellValue(sheet, "A3", "B1_shh_PP2")
	x.SetCellValue(sheet, "A4", "B1_shh_PP2")
	x.SetCellValue(sheet, "B4", arm+"TA"+testAmps["B1"].Dn)
	require.NoError(t, x.SaveAs(in))
	require.NoError(t, x.Close())

	s, err := New(testAmps, "B2", noResolve)
	require.NoError(t, err)

	outPath := filepath.Join(dir, "out.xlsx")
	require.NoError(t, s.File(in, outPath))

	out, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer out.Close()

	outRows, err := out.GetRows(out.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, outRows, 3, "the sequence-less row leaves no blank row behind")
	assert.Equal(t, testAmps["B2"].Up+"AA"+arm, outRows[1][1])
	assert.Equal(t, arm+"AA"+testAmps["B2"].Dn, outRows[2][1])
}

func TestFileMissingColumns(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.xlsx")

	x := excelize.NewFile()
	x.SetCellValue(x.GetSheetName(0), "A1", "Something else")
	require.NoError(t, x.SaveAs(in))
	require.NoError(t, x.Close())

	s, err := New(testAmps, "B2", noResolve)
	require.NoError(t, err)
	assert.Error(t, s.File(in, filepath.Join(dir, "out.xlsx")))
}
