// httpsrv_test.go -- test suite for the HTTP query front end

package hashuid

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlerQueryHit(t *testing.T) {
	assert := newAsserter(t)
	root := t.TempDir()

	writeTestTable(t, NormalPath(root, 0), [][2]uint32{{0xbeef, 42}})

	q, err := Open(root, 0)
	assert(err == nil, "Open: %v", err)
	defer q.Close()

	srv := httptest.NewServer(Handler(q))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/bili2/hashuid/beef")
	assert(err == nil, "Get: %v", err)
	defer resp.Body.Close()
	assert(resp.StatusCode == http.StatusOK, "expected 200, saw %d", resp.StatusCode)

	var body queryResponse
	assert(json.NewDecoder(resp.Body).Decode(&body) == nil, "decode body")
	assert(len(body.Primary) == 1 && body.Primary[0] == 42, "expected primary=[42], saw %v", body.Primary)
}

func TestHandlerBadHex(t *testing.T) {
	assert := newAsserter(t)
	root := t.TempDir()

	q, err := Open(root, 0)
	assert(err == nil, "Open: %v", err)
	defer q.Close()

	srv := httptest.NewServer(Handler(q))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/bili2/hashuid/not-hex")
	assert(err == nil, "Get: %v", err)
	defer resp.Body.Close()
	assert(resp.StatusCode == http.StatusBadRequest, "expected 400, saw %d", resp.StatusCode)
}

func TestHandlerMissingUid(t *testing.T) {
	assert := newAsserter(t)
	root := t.TempDir()

	q, err := Open(root, 0)
	assert(err == nil, "Open: %v", err)
	defer q.Close()

	srv := httptest.NewServer(Handler(q))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/bili2/hashuid/")
	assert(err == nil, "Get: %v", err)
	defer resp.Body.Close()
	assert(resp.StatusCode == http.StatusBadRequest, "expected 400, saw %d", resp.StatusCode)
}

func TestHandlerMissResult(t *testing.T) {
	assert := newAsserter(t)
	root := t.TempDir()

	writeTestTable(t, NormalPath(root, 0), [][2]uint32{{1, 1}})

	q, err := Open(root, 0)
	assert(err == nil, "Open: %v", err)
	defer q.Close()

	srv := httptest.NewServer(Handler(q))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/bili2/hashuid/ffffffff")
	assert(err == nil, "Get: %v", err)
	defer resp.Body.Close()
	assert(resp.StatusCode == http.StatusOK, "expected 200 for a clean miss, saw %d", resp.StatusCode)

	var body queryResponse
	assert(json.NewDecoder(resp.Body).Decode(&body) == nil, "decode body")
	assert(len(body.Primary) == 0 && len(body.Resolved) == 0, "expected empty result, saw %+v", body)
}
