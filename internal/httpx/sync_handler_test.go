package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/syncx"
	"github.com/stretchr/testify/require"
)

type fakeIngester struct {
	got     []syncx.Submission
	summary syncx.Summary
	err     error
}

func (f *fakeIngester) Ingest(ctx context.Context, batch []syncx.Submission) (syncx.Summary, error) {
	f.got = batch
	return f.summary, f.err
}

func TestSyncOrdersResponseShape(t *testing.T) {
	ing := &fakeIngester{summary: syncx.Summary{SyncedCount: 2, SkippedCount: 1}}
	router := NewRouter()
	(&SyncHandler{Reconciler: ing}).Register(router)

	body := `[
		{"id":"o1","items":[{"product_id":1,"name":"Jollof Rice","price":45,"quantity":4,"tax_amount":5.4}],
		 "total_amount":180,"total_tax":21.6,"status":"completed","payment_method":"cash",
		 "created_at":"2025-03-14T12:00:00Z"}
	]`
	req := httptest.NewRequest(http.MethodPost, "/sync/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"success","synced_count":2,"skipped_count":1}`, rec.Body.String())

	require.Len(t, ing.got, 1)
	require.Equal(t, "o1", ing.got[0].ID)
	require.Len(t, ing.got[0].Items, 1)
	require.NotNil(t, ing.got[0].Items[0].ProductID)
	require.EqualValues(t, 1, *ing.got[0].Items[0].ProductID)
}

func TestSyncOrdersInvalidJSON(t *testing.T) {
	router := NewRouter()
	(&SyncHandler{Reconciler: &fakeIngester{}}).Register(router)

	req := httptest.NewRequest(http.MethodPost, "/sync/orders", strings.NewReader(`{"not":"a batch"`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncOrdersStorageFailure(t *testing.T) {
	ing := &fakeIngester{err: errors.New("sync order o2: storage unavailable")}
	router := NewRouter()
	(&SyncHandler{Reconciler: ing}).Register(router)

	req := httptest.NewRequest(http.MethodPost, "/sync/orders", strings.NewReader(`[]`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "storage unavailable")
}
