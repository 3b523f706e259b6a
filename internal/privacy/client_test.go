package privacy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "api-key test-token", r.Header.Get("Authorization"))

		query := r.URL.Query()
		assert.Equal(t, "2024-01-05 00:00:00.000", query.Get("begin"))
		assert.Equal(t, "2024-01-05 23:59:59.999", query.Get("end"))
		assert.Equal(t, "1", query.Get("page"))
		assert.Equal(t, "25", query.Get("page_size"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"data": [
				{
					"amount": 7188,
					"authorization_amount": 7188,
					"created": "2024-01-05T12:00:00Z",
					"merchant": {"descriptor": "WASTE MGMT WM EZPAY"}
				},
				{
					"authorization_amount": 500,
					"created": "2024-01-05T13:00:00Z"
				},
				{
					"amount": 9999,
					"authorization_amount": 9999,
					"created": "2024-01-05T14:00:00Z",
					"merchant": {"descriptor": 12345}
				}
			]
		}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "test-token", PageSize: 25}, nil)

	begin := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 23, 59, 59, 999000000, time.UTC)
	transactions, err := client.ListTransactions(context.Background(), begin, end)

	require.NoError(t, err)
	require.Len(t, transactions, 3)

	// Well-formed record
	require.NotNil(t, transactions[0].Amount)
	assert.Equal(t, int64(7188), *transactions[0].Amount)
	descriptor, ok := transactions[0].Descriptor()
	require.True(t, ok)
	assert.Equal(t, "WASTE MGMT WM EZPAY", descriptor)

	// Missing amount and merchant decode without error
	assert.Nil(t, transactions[1].Amount)
	_, ok = transactions[1].Descriptor()
	assert.False(t, ok)

	// Numeric descriptor is not usable text
	_, ok = transactions[2].Descriptor()
	assert.False(t, ok)
}

func TestListTransactions_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "bad"}, nil)

	_, err := client.ListTransactions(context.Background(), time.Now().Add(-time.Hour), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestDescriptor(t *testing.T) {
	tests := []struct {
		name string
		txn  Transaction
		want string
		ok   bool
	}{
		{"string descriptor", Transaction{Merchant: &Merchant{Descriptor: "SHOP"}}, "SHOP", true},
		{"nil merchant", Transaction{}, "", false},
		{"missing descriptor", Transaction{Merchant: &Merchant{}}, "", false},
		{"numeric descriptor", Transaction{Merchant: &Merchant{Descriptor: float64(42)}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.txn.Descriptor()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
