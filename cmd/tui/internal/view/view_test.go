package view

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "121.00", FormatAmount(decimal.RequireFromString("121")))
	assert.Equal(t, "0.50", FormatAmount(decimal.RequireFromString(".5")))
}

func TestImportModel_Result(t *testing.T) {
	t.Run("Failed Rows And Confirm", func(t *testing.T) {
		m := NewImportModel(nil, nil)
		m.file = "invoices.csv"

		res := &importer.Result{
			OK: []invoice.Invoice{{Code: "A"}},
			KO: []importer.FailedRow{{
				Line: 3,
				Errors: []importer.ValidationError{
					{Property: importer.PropertyCode, Message: importer.MessageRequired},
				},
			}},
		}

		next, _ := m.Update(importResultMsg{result: res})
		got := next.(ImportModel)

		assert.Equal(t, importStateResult, got.state)
		assert.Equal(t, "invoices.csv: 2 rows, 1 valid, 1 failed", got.status)
		require.Len(t, got.failed.Rows(), 1)
		assert.Equal(t, "3", got.failed.Rows()[0][0])
		assert.Equal(t, "code: required", got.failed.Rows()[0][1])
		assert.NotNil(t, got.form)
	})

	t.Run("Nothing Valid", func(t *testing.T) {
		m := NewImportModel(nil, nil)

		next, _ := m.Update(importResultMsg{result: &importer.Result{}})
		got := next.(ImportModel)

		assert.Equal(t, importStateResult, got.state)
		assert.Nil(t, got.form)
	})

	t.Run("Import Error", func(t *testing.T) {
		m := NewImportModel(nil, nil)

		next, _ := m.Update(importResultMsg{err: errors.New("boom")})
		got := next.(ImportModel)

		assert.Equal(t, importStateDone, got.state)
		assert.Contains(t, got.status, "boom")
	})
}

func TestListModel_StatusFilter(t *testing.T) {
	m := NewListModel(nil)

	m.statusFilterIdx = 2
	m.applyFilter()
	require.NotNil(t, m.filter.Status)
	assert.Equal(t, invoice.StatusDraft, *m.filter.Status)
	assert.Nil(t, m.filter.OwnerName)

	*m.owner = "  acme "
	m.statusFilterIdx = 0
	m.applyFilter()
	assert.Nil(t, m.filter.Status)
	require.NotNil(t, m.filter.OwnerName)
	assert.Equal(t, "acme", *m.filter.OwnerName)
}
