// httpsrv.go -- HTTP front end for the query engine (spec §4.I).
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package hashuid

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// queryResponse is the JSON body returned by a successful bili2 lookup.
type queryResponse struct {
	Primary  []uint32 `json:"primary"`
	Resolved []uint32 `json:"resolved"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns an http.Handler serving GET /bili2/hashuid/{hex} against
// the given query engine. A malformed hex uid yields 400; an I/O failure
// from the query engine yields 500 and is logged server-side.
func Handler(q *QueryEngine) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bili2/hashuid/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		hex := strings.TrimPrefix(r.URL.Path, "/bili2/hashuid/")
		if hex == "" {
			writeJSONError(w, http.StatusBadRequest, "missing uid")
			return
		}

		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "bad hex uid: "+err.Error())
			return
		}

		res, err := q.Query(uint32(n))
		if err != nil {
			log.Printf("hashuid: query %s: %v", hex, err)
			writeJSONError(w, http.StatusInternalServerError, "query failed")
			return
		}

		writeJSON(w, http.StatusOK, queryResponse{Primary: res.Primary, Resolved: res.Resolved})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
