package finance

import (
	"testing"

	"fleetfin/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementRunningBalance(t *testing.T) {
	entries := []models.DriverLedgerEntry{
		{ID: 3, Date: "2025-04-02", Kind: models.LedgerDebit, Amount: dec("50")},
		{ID: 1, Date: "2025-04-01", Kind: models.LedgerCredit, Amount: dec("200")},
		{ID: 2, Date: "2025-04-02", Kind: models.LedgerDebit, Amount: dec("30.25")},
	}

	st := Statement(7, "Carlos", entries)
	require.Len(t, st.Lines, 3)
	assert.Equal(t, int64(1), st.Lines[0].ID)
	assert.Equal(t, int64(2), st.Lines[1].ID)
	assert.Equal(t, int64(3), st.Lines[2].ID)
	assert.Equal(t, "200.00", st.Lines[0].Balance.StringFixed(2))
	assert.Equal(t, "169.75", st.Lines[1].Balance.StringFixed(2))
	assert.Equal(t, "119.75", st.Lines[2].Balance.StringFixed(2))
	assert.Equal(t, "200.00", st.Credits.StringFixed(2))
	assert.Equal(t, "80.25", st.Debits.StringFixed(2))
	assert.Equal(t, "119.75", st.Balance.StringFixed(2))

	// input order untouched
	assert.Equal(t, int64(3), entries[0].ID)
	assert.True(t, Balance(entries).Equal(st.Balance))
}

func TestStatementEmpty(t *testing.T) {
	st := Statement(1, "Ana", nil)
	assert.NotNil(t, st.Lines)
	assert.True(t, st.Balance.IsZero())
}
