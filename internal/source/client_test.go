package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/routemind/routemind/internal/models"
)

const testCSV = ledgerHeader + "\n" +
	"S1,C100,2023-05-10,08:30:00,CityA,CityB,,,10,,150.50,2\n"

func TestFetchLedger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(testCSV))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, 3, time.Millisecond)
	sales, err := client.FetchLedger(context.Background())
	if err != nil {
		t.Fatalf("FetchLedger failed: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("Expected 1 sale, got %d", len(sales))
	}
	if sales[0].CustomerKey != "C100" {
		t.Errorf("Unexpected customer key: %s", sales[0].CustomerKey)
	}
}

func TestFetchLedgerRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(testCSV))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, 3, time.Millisecond)
	sales, err := client.FetchLedger(context.Background())
	if err != nil {
		t.Fatalf("FetchLedger should succeed after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if len(sales) != 1 {
		t.Errorf("Expected 1 sale, got %d", len(sales))
	}
}

func TestFetchLedgerDataUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, 2, time.Millisecond)
	_, err := client.FetchLedger(context.Background())
	if err == nil {
		t.Fatal("FetchLedger should fail on persistent server errors")
	}
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Errorf("Error should wrap ErrDataUnavailable, got: %v", err)
	}
}

func TestFetchLedgerNotFoundIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, 2, time.Millisecond)
	_, err := client.FetchLedger(context.Background())
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Errorf("404 should wrap ErrDataUnavailable, got: %v", err)
	}
}

func TestFetchLedgerBadPayloadIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("a,b\nonly,two,columns,here")) // missing required columns
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, 1, time.Millisecond)
	_, err := client.FetchLedger(context.Background())
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Errorf("Unusable payload should wrap ErrDataUnavailable, got: %v", err)
	}
}
