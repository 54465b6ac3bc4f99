package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	invoicerHttp "github.com/MrJamesThe3rd/invoicer/internal/http"
	"github.com/MrJamesThe3rd/invoicer/internal/http/imports"
	invoiceHandler "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const header = "Invoice Code;Issued Date;Owner Name;Contact Name;Subtotal;Taxes;Total;Status"

type importBody struct {
	File string `json:"file"`
	OK   []struct {
		Code   string          `json:"code"`
		Total  decimal.Decimal `json:"total"`
		Status string          `json:"status"`
	} `json:"ok"`
	KO []struct {
		Line   int `json:"line"`
		Errors []struct {
			Property string `json:"property"`
			Message  string `json:"message"`
		} `json:"errors"`
	} `json:"ko"`
	Saved int `json:"saved"`
}

func newServer(t *testing.T, dir string, repo invoice.Repository) http.Handler {
	t.Helper()

	reader, err := csvfile.NewReader(dir, ';')
	require.NoError(t, err)

	importSvc, err := importer.NewService(reader, importer.DefaultSchema())
	require.NoError(t, err)

	invoiceSvc := invoice.NewService(repo)

	return invoicerHttp.New(
		imports.NewHandler(importSvc, invoiceSvc, 1<<20),
		invoiceHandler.NewHandler(invoiceSvc),
	)
}

func TestImport_File(t *testing.T) {
	dir := t.TempDir()
	content := header + "\n" +
		"INV-1;2024-01-01;Acme;Jane;100;21;121.00;issued\n" +
		";2024-01-01;Acme;Jane;100;21;abc;issued\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(content), 0o600))

	ctrl := gomock.NewController(t)
	srv := newServer(t, dir, invoice.NewMockRepository(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports", strings.NewReader(`{"filename":"a.csv"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body importBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "a.csv", body.File)
	require.Len(t, body.OK, 1)
	assert.Equal(t, "INV-1", body.OK[0].Code)
	assert.True(t, decimal.NewFromInt(121).Equal(body.OK[0].Total))
	assert.Equal(t, "issued", body.OK[0].Status)

	require.Len(t, body.KO, 1)
	assert.Equal(t, 3, body.KO[0].Line)
	require.Len(t, body.KO[0].Errors, 2)
	assert.Equal(t, "code", body.KO[0].Errors[0].Property)
	assert.Equal(t, "required", body.KO[0].Errors[0].Message)
	assert.Equal(t, "total", body.KO[0].Errors[1].Property)
	assert.Equal(t, "invalid", body.KO[0].Errors[1].Message)
	assert.Zero(t, body.Saved)
}

func TestImport_HeaderOnlyReturnsEmptyArrays(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "h.csv"), []byte(header), 0o600))

	srv := newServer(t, dir, invoice.NewMockRepository(gomock.NewController(t)))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/imports", strings.NewReader(`{"filename":"h.csv"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":[]`)
	assert.Contains(t, rec.Body.String(), `"ko":[]`)
}

func TestImport_Errors(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		wantStatus int
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte(" ; \nx;y\n"), 0o600))

	tests := []testCase{
		{name: "Missing File", body: `{"filename":"missing.csv"}`, wantStatus: http.StatusNotFound},
		{name: "Parse Error", body: `{"filename":"bad.csv"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "No Filename", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "Escaping Path", body: `{"filename":"../secret.csv"}`, wantStatus: http.StatusBadRequest},
		{name: "Bad JSON", body: `{`, wantStatus: http.StatusBadRequest},
	}

	srv := newServer(t, dir, invoice.NewMockRepository(gomock.NewController(t)))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/imports", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestImport_UploadAndPersist(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := invoice.NewMockRepository(ctrl)
	btx := invoice.NewMockBatchTx(ctrl)

	repo.EXPECT().BeginBatch(gomock.Any()).Return(btx, nil)
	btx.EXPECT().
		UpsertInvoices(gomock.Any(), gomock.Any(), gomock.Len(1)).
		DoAndReturn(func(_ context.Context, batchID uuid.UUID, invs []invoice.Invoice) ([]*invoice.Record, error) {
			return []*invoice.Record{{ID: uuid.New(), BatchID: batchID, Invoice: invs[0]}}, nil
		})
	btx.EXPECT().Commit().Return(nil)
	btx.EXPECT().Rollback().Return(nil)

	srv := newServer(t, t.TempDir(), repo)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(header + "\nINV-7;2024-02-01;Acme;Jane;10;2;12;draft\n"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("persist", "true"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body importBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "upload.csv", body.File)
	assert.Equal(t, 1, body.Saved)
}

func TestImport_PersistFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"),
		[]byte(header+"\nINV-1;2024-01-01;Acme;Jane;100;21;121;issued\n"), 0o600))

	ctrl := gomock.NewController(t)
	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().BeginBatch(gomock.Any()).Return(nil, errors.New("db down"))

	srv := newServer(t, dir, repo)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/imports",
		strings.NewReader(`{"filename":"a.csv","persist":true}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestInvoices_ListAndGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := invoice.NewMockRepository(ctrl)

	id := uuid.New()
	stored := &invoice.Record{
		ID: id,
		Invoice: invoice.Invoice{
			Code:   "INV-1",
			Total:  decimal.RequireFromString("12.50"),
			Status: invoice.StatusIssued,
		},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	repo.EXPECT().
		ListInvoices(gomock.Any(), invoice.ListFilter{Status: new(invoice.StatusIssued)}).
		Return([]*invoice.Record{stored}, nil)
	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(stored, nil)
	repo.EXPECT().GetInvoice(gomock.Any(), gomock.Not(id)).Return(nil, invoice.ErrNotFound)

	srv := newServer(t, t.TempDir(), repo)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices?status=ISSUED", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "INV-1", list[0]["code"])

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
