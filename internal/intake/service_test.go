package intake

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"medscan/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, zap.NewNop(), 2), st
}

func seedProduct(t *testing.T, st *store.Store) {
	t.Helper()
	require.NoError(t, st.UpsertProduct(store.Product{
		GTIN:        "05012345678901",
		JANCode:     "4987123456789",
		ProductName: "Amoxicillin Cap 250mg",
	}))
}

func TestProcess_KnownProduct(t *testing.T) {
	svc, st := newTestService(t)
	seedProduct(t, st)

	res, err := svc.Process("(01)05012345678901(17)260430(10)LOT12345(21)SN987654")
	require.NoError(t, err)

	assert.True(t, res.Record.IsGS1)
	require.NotNil(t, res.Product)
	assert.Equal(t, "Amoxicillin Cap 250mg", res.Product.ProductName)
	assert.NotZero(t, res.IntakeID)

	intakes, err := st.ListIntakes(1)
	require.NoError(t, err)
	require.Len(t, intakes, 1)
	assert.Equal(t, "05012345678901", intakes[0].GTIN)
	assert.Equal(t, "2026-04-30", intakes[0].ExpiryDate)
	assert.Equal(t, "LOT12345", intakes[0].LotNumber)
	assert.Equal(t, "SN987654", intakes[0].SerialNumber)
}

func TestProcess_UnknownGTINStillRecorded(t *testing.T) {
	svc, st := newTestService(t)

	res, err := svc.Process("(01)09999999999994(17)270101")
	require.NoError(t, err)
	assert.Nil(t, res.Product)
	assert.NotZero(t, res.IntakeID)

	n, err := st.CountIntakes()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProcess_NonGS1Recorded(t *testing.T) {
	svc, st := newTestService(t)

	res, err := svc.Process("5012345678900")
	require.NoError(t, err)
	assert.False(t, res.Record.IsGS1)
	assert.Nil(t, res.Product)

	intakes, err := st.ListIntakes(1)
	require.NoError(t, err)
	require.Len(t, intakes, 1)
	assert.Equal(t, "5012345678900", intakes[0].Raw)
	assert.Empty(t, intakes[0].GTIN)
}

func TestProcess_InvalidExpiryStoredEmpty(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.Process("(01)05012345678901(17)261332(10)BATCH123")
	require.NoError(t, err)

	intakes, err := st.ListIntakes(1)
	require.NoError(t, err)
	require.Len(t, intakes, 1)
	// Invalid calendar date renders as an empty date field, never a
	// silently wrong one.
	assert.Empty(t, intakes[0].ExpiryDate)
	assert.Equal(t, "BATCH123", intakes[0].LotNumber)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	svc, st := newTestService(t)
	seedProduct(t, st)

	res, err := svc.Preview("(01)05012345678901(17)260430")
	require.NoError(t, err)
	require.NotNil(t, res.Product)
	assert.Zero(t, res.IntakeID)

	n, err := st.CountIntakes()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessFile(t *testing.T) {
	svc, st := newTestService(t)

	path := filepath.Join(t.TempDir(), "scans.txt")
	content := "# morning shipment\n" +
		"(01)05012345678901(17)260430(10)LOTA\n" +
		"\n" +
		"0105012345678901\x1d17260430\x1d10LOTB\n" +
		"5012345678900\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	n, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	intakes, err := st.ListIntakes(0)
	require.NoError(t, err)
	require.Len(t, intakes, 3)
	// Newest-first listing: the last line of the file comes back
	// first, so file order is preserved underneath.
	assert.Equal(t, "5012345678900", intakes[0].Raw)
	assert.Equal(t, "LOTB", intakes[1].LotNumber)
	assert.Equal(t, "LOTA", intakes[2].LotNumber)
}

func TestProcessFile_Missing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
