package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// fakeSheetsAPI serves just enough of the values API surface for the client.
type fakeSheetsAPI struct {
	srv *httptest.Server

	gotAppend      sheetsapi.ValueRange
	gotBatchUpdate sheetsapi.BatchUpdateValuesRequest
}

func newFakeSheetsAPI(t *testing.T) *fakeSheetsAPI {
	t.Helper()
	f := &fakeSheetsAPI{}

	r := chi.NewRouter()
	r.Get("/v4/spreadsheets/{id}/values/{range}", func(w http.ResponseWriter, req *http.Request) {
		resp := sheetsapi.ValueRange{
			Range: chi.URLParam(req, "range"),
			Values: [][]interface{}{
				{"13-standard-A", "chess", "Yes"},
				{"12-standard-A", "chess", 2024}, // numeric cell, coerced to text
			},
		}
		json.NewEncoder(w).Encode(resp)
	})
	// The :append verb is part of the final path segment.
	r.Post("/v4/spreadsheets/{id}/values/{range}", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&f.gotAppend))
		json.NewEncoder(w).Encode(sheetsapi.AppendValuesResponse{})
	})
	r.Post("/v4/spreadsheets/{id}/values:batchUpdate", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&f.gotBatchUpdate))
		json.NewEncoder(w).Encode(sheetsapi.BatchUpdateValuesResponse{})
	})

	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSheetsAPI) client(t *testing.T) *Client {
	t.Helper()
	svc, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(f.srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return NewWithService(svc, "sheet-123")
}

func TestReadRangeCoercesToStrings(t *testing.T) {
	fake := newFakeSheetsAPI(t)
	client := fake.client(t)

	rows, err := client.ReadRange(context.Background(), "Seasons!A1:Z")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"13-standard-A", "chess", "Yes"}, rows[0])
	assert.Equal(t, "2024", rows[1][2])
}

func TestAppend(t *testing.T) {
	fake := newFakeSheetsAPI(t)
	client := fake.client(t)

	rows := [][]interface{}{{"13-standard-A", "chess", "2026-03-02"}}
	require.NoError(t, client.Append(context.Background(), "Results!A3", rows))

	require.Len(t, fake.gotAppend.Values, 1)
	assert.Equal(t, "13-standard-A", fake.gotAppend.Values[0][0])
}

func TestBatchUpdate(t *testing.T) {
	fake := newFakeSheetsAPI(t)
	client := fake.client(t)

	updates := []ValueUpdate{
		{Range: "Schedule!J2", Values: [][]interface{}{{"✓"}}},
		{Range: "Schedule!J5", Values: [][]interface{}{{"✓"}}},
	}
	require.NoError(t, client.BatchUpdate(context.Background(), updates))

	assert.Equal(t, "USER_ENTERED", fake.gotBatchUpdate.ValueInputOption)
	require.Len(t, fake.gotBatchUpdate.Data, 2)
	assert.Equal(t, "Schedule!J2", fake.gotBatchUpdate.Data[0].Range)
}

func TestBatchUpdateEmpty(t *testing.T) {
	// No request is issued for an empty update set; a client with no
	// reachable backend proves it.
	client := NewWithService(&sheetsapi.Service{}, "sheet-123")
	require.NoError(t, client.BatchUpdate(context.Background(), nil))
}
