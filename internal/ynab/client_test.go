package ynab

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/budgets/budget-1/transactions", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"data": {
				"transactions": [
					{"id": "t1", "date": "2024-01-05", "amount": -71880, "payee_name": "Pwp*privacy.com", "memo": null},
					{"id": "t2", "date": "2024-01-06", "amount": -5000, "payee_name": "Grocery Store", "memo": "weekly shop"}
				]
			}
		}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "test-token", BudgetID: "budget-1"}, nil)

	transactions, err := client.ListTransactions(context.Background())

	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "t1", transactions[0].ID)
	assert.Equal(t, "2024-01-05", transactions[0].Date)
	assert.Equal(t, int64(-71880), transactions[0].Amount)
	assert.Equal(t, "Pwp*privacy.com", transactions[0].PayeeName)
	assert.Nil(t, transactions[0].Memo)
	require.NotNil(t, transactions[1].Memo)
	assert.Equal(t, "weekly shop", *transactions[1].Memo)
}

func TestListTransactions_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "bad", BudgetID: "budget-1"}, nil)

	_, err := client.ListTransactions(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestUpdateMemo(t *testing.T) {
	var gotBody map[string]map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/budgets/budget-1/transactions/t1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data": {}}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "test-token", BudgetID: "budget-1"}, nil)

	err := client.UpdateMemo(context.Background(), "t1", "WASTE MGMT WM EZPAY")

	require.NoError(t, err)
	assert.Equal(t, "WASTE MGMT WM EZPAY", gotBody["transaction"]["memo"])
}

func TestUpdateMemo_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "test-token", BudgetID: "budget-1"}, nil)

	err := client.UpdateMemo(context.Background(), "t1", "memo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "t1")
}
