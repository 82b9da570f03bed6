package refdata

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietCatalog(baseURL string, client *http.Client) *HTTPCatalog {
	c := NewHTTPCatalog(baseURL, client, log.New(io.Discard, "", 0))
	c.backoff = time.Millisecond
	return c
}

func TestHTTPCatalogFetchesDrones(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/drones", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"DRONE-001","name":"Falcon","capability":{"cooling":true,"capacity":4.5,"maxMoves":2000,"costInitial":10,"costPerMove":0.1,"costFinal":5}}
		]`))
	}))
	defer srv.Close()

	drones, err := quietCatalog(srv.URL, srv.Client()).Drones(context.Background())
	require.NoError(t, err)
	require.Len(t, drones, 1)
	assert.Equal(t, "DRONE-001", drones[0].ID)
	assert.True(t, drones[0].Capability.Cooling)
	assert.Equal(t, 2000, drones[0].Capability.MaxMoves)
}

func TestHTTPCatalogRetriesServerErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"base","location":{"lng":-3.192,"lat":55.946}}]`))
	}))
	defer srv.Close()

	points, err := quietCatalog(srv.URL, srv.Client()).ServicePoints(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestHTTPCatalogGivesUpAfterRetries(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := quietCatalog(srv.URL, srv.Client()).NoFlyZones(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, maxAttempts, atomic.LoadInt32(&attempts))
}

func TestHTTPCatalogDoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := quietCatalog(srv.URL, srv.Client()).ServicePointDrones(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&attempts))
}

func TestHTTPCatalogParsesRestrictedAreas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/restricted-areas", r.URL.Path)
		_, _ = w.Write([]byte(`[{
			"id":1,"name":"castle",
			"vertices":[
				{"lng":-3.192,"lat":55.946},{"lng":-3.192,"lat":55.947},
				{"lng":-3.191,"lat":55.947},{"lng":-3.191,"lat":55.946},
				{"lng":-3.192,"lat":55.946}
			]
		}]`))
	}))
	defer srv.Close()

	zones, err := quietCatalog(srv.URL, srv.Client()).NoFlyZones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.NoError(t, zones[0].Validate())
	assert.Len(t, zones[0].Ring, 5)
}
