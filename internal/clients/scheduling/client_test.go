package scheduling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_Success(t *testing.T) {
	var received ScheduleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"success": true, "schedulingId": "sched-42"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result, err := client.Schedule(context.Background(), ScheduleRequest{
		OrderID:      "ORD-1",
		CustomerName: "Ana López",
		Address:      "Av. Corrientes 1234, Balvanera, CABA",
		DeliveryDate: "2026-09-01 (caba)",
		Items:        []ScheduleItem{{Name: "Black Afgano", Quantity: 1}},
		Total:        "$21600 ARS",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "sched-42", result.SchedulingID)
	assert.Equal(t, "ORD-1", received.OrderID)
}

func TestSchedule_FailureResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result, err := client.Schedule(context.Background(), ScheduleRequest{OrderID: "ORD-1"})

	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestSchedule_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Schedule(context.Background(), ScheduleRequest{OrderID: "ORD-1"})
	assert.Error(t, err)
}
