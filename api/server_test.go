package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpoints(t *testing.T) {

	status := &Status{}
	status.Set(1.193, 4.5)

	server := NewServer("localhost:0", status)
	testServer := httptest.NewServer(server.server.Handler)
	defer testServer.Close()

	type subTest struct {
		name         string
		path         string
		expectedBody string
	}

	subTests := []subTest{
		{"Power", "/api/v1/power", "1.193"},
		{"Usage", "/api/v1/usage", "4.5"},
	}

	for _, subTest := range subTests {
		t.Run(subTest.name, func(t *testing.T) {
			resp, err := http.Get(testServer.URL + subTest.path)
			assert.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			assert.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
			assert.Equal(t, subTest.expectedBody, string(body))
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := NewServer("localhost:0", &Status{})
	testServer := httptest.NewServer(server.server.Handler)
	defer testServer.Close()

	resp, err := http.Post(testServer.URL+"/api/v1/power", "text/plain", nil)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
