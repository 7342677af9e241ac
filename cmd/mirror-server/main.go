// Serves canned member data from data/mirror.json so the API server can
// run with LETTERBUDS_MIRROR_URL instead of scraping live pages.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

type mirrorFile struct {
	Members map[string]json.RawMessage `json:"members"`
}

func main() {
	dataPath := "data/mirror.json"
	if p := os.Getenv("LETTERBUDS_MIRROR_DATA"); p != "" {
		dataPath = p
	}

	load := func() (*mirrorFile, error) {
		b, err := os.ReadFile(dataPath)
		if err != nil {
			return nil, err
		}
		var mf mirrorFile
		if err := json.Unmarshal(b, &mf); err != nil {
			return nil, err
		}
		return &mf, nil
	}

	http.HandleFunc("/members/", func(w http.ResponseWriter, r *http.Request) {
		mf, err := load()
		if err != nil {
			http.Error(w, "cannot read mirror data: "+err.Error(), http.StatusInternalServerError)
			return
		}

		username := strings.ToLower(strings.Trim(strings.TrimPrefix(r.URL.Path, "/members/"), "/"))
		rec, ok := mf.Members[username]
		if !ok {
			http.Error(w, "unknown member", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(rec)
	})

	http.HandleFunc("/members", func(w http.ResponseWriter, r *http.Request) {
		mf, err := load()
		if err != nil {
			http.Error(w, "cannot read mirror data: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mf)
	})

	addr := ":9000"
	log.Printf("mirror server listening on %s (data: %s)", addr, dataPath)
	log.Fatal(http.ListenAndServe(addr, nil))
}
