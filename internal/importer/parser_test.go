package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/importer"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParse_Standard(t *testing.T) {
	csv := "\xEF\xBB\xBFDate,Description,Amount,Currency,Category\n" +
		"2026-03-02,Taxi to airport,42.50,eur,Transport\n" +
		"2026-03-03,Hotel,\"1,200.00\",USD,\n" +
		"not-a-date,Lunch,12,USD,Food\n" +
		",,,,\n"

	st, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "standard", st.Profile)
	require.Len(t, st.Rows, 1)

	row := st.Rows[0]
	assert.Equal(t, 2, row.Line)
	assert.Equal(t, date(2026, 3, 2), row.Date)
	assert.Equal(t, "Taxi to airport", row.Description)
	assert.Equal(t, "42.5", row.Amount.String())
	assert.Equal(t, "EUR", row.Currency)
	assert.Equal(t, "Transport", row.Category)

	require.Len(t, st.Errors, 2)
	assert.Equal(t, 3, st.Errors[0].Line)
	assert.Contains(t, st.Errors[0].Message, "invalid amount")
	assert.Equal(t, 4, st.Errors[1].Line)
	assert.Contains(t, st.Errors[1].Message, "invalid date")
}

func TestParse_European(t *testing.T) {
	csv := `Relatório de despesas;Março 2026

Data;Descrição;Montante;Moeda;Categoria
04-03-2026;Almoço com cliente;-1.234,56;EUR;Food
05-03-2026;Papelaria;10,00;;Office Supplies
Total;;;;
`

	encoded, err := charmap.Windows1252.NewEncoder().String(csv)
	require.NoError(t, err)

	for name, input := range map[string]string{"UTF8": csv, "Windows1252": encoded} {
		t.Run(name, func(t *testing.T) {
			st, err := importer.Parse(strings.NewReader(input))
			require.NoError(t, err)

			assert.Equal(t, "european", st.Profile)
			require.Len(t, st.Rows, 2)

			assert.Equal(t, date(2026, 3, 4), st.Rows[0].Date)
			assert.Equal(t, "Almoço com cliente", st.Rows[0].Description)
			assert.Equal(t, "1234.56", st.Rows[0].Amount.String())
			assert.Equal(t, "EUR", st.Rows[0].Currency)

			assert.Equal(t, "10", st.Rows[1].Amount.String())
			assert.Empty(t, st.Rows[1].Currency)
			assert.Equal(t, "Office Supplies", st.Rows[1].Category)

			require.Len(t, st.Errors, 1)
			assert.Contains(t, st.Errors[0].Message, `invalid date "Total"`)
		})
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := importer.Parse(strings.NewReader("when;what\n2026-01-01;thing\n"))
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
