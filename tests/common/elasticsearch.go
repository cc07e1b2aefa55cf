package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"sync"

	es7 "github.com/elastic/go-elasticsearch/v7"
)

// FakeElasticsearch answers the part of the elasticsearch 7 REST api
// the repositories use, keeping every index in memory.
type FakeElasticsearch struct {
	*httptest.Server

	mu       sync.Mutex
	indices  map[string]*fakeIndex
	rejected map[string]string
	requests []string
}

type fakeIndex struct {
	body map[string]interface{}
	docs []map[string]interface{}
}

func NewFakeElasticsearch() *FakeElasticsearch {
	f := &FakeElasticsearch{
		indices:  map[string]*fakeIndex{},
		rejected: map[string]string{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

// Client returns an elasticsearch client pointed at the fake,
// with transport retries disabled.
func (f *FakeElasticsearch) Client() *es7.Client {
	client, err := es7.NewClient(es7.Config{
		Addresses:    []string{f.URL},
		DisableRetry: true,
	})
	if err != nil {
		panic(err)
	}
	return client
}

// RejectWrites makes every document written to index fail with a
// mapper_parsing_exception carrying reason.
func (f *FakeElasticsearch) RejectWrites(index string, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected[index] = reason
}

// Seed creates index (when missing) and stores docs in it.
func (f *FakeElasticsearch) Seed(index string, docs ...map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx, ok := f.indices[index]
	if !ok {
		idx = &fakeIndex{body: map[string]interface{}{}}
		f.indices[index] = idx
	}
	for _, doc := range docs {
		idx.docs = append(idx.docs, roundTrip(doc, true))
	}
}

func (f *FakeElasticsearch) HasIndex(index string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.indices[index]
	return ok
}

// IndexBody returns the body the index was created with.
func (f *FakeElasticsearch) IndexBody(index string) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if idx, ok := f.indices[index]; ok {
		return roundTrip(idx.body, false)
	}
	return nil
}

// Documents returns the stored documents with numbers decoded as float64.
func (f *FakeElasticsearch) Documents(index string) []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	docs := []map[string]interface{}{}
	if idx, ok := f.indices[index]; ok {
		for _, doc := range idx.docs {
			docs = append(docs, roundTrip(doc, false))
		}
	}
	return docs
}

// Requests lists every request received as "METHOD /uri".
func (f *FakeElasticsearch) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.requests...)
}

func (f *FakeElasticsearch) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, fmt.Sprintf("%s %s", r.Method, r.URL.RequestURI()))

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case parts[0] == "":
		writeJson(w, http.StatusOK, map[string]interface{}{
			"name":         "fake",
			"cluster_name": "fake",
			"version": map[string]interface{}{
				"number":       "7.17.7",
				"build_flavor": "default",
			},
			"tagline": "You Know, for Search",
		})
	case len(parts) == 1:
		f.serveIndex(w, r, parts[0])
	case parts[1] == "_doc":
		f.serveDocument(w, r, parts[0])
	case parts[1] == "_count":
		f.serveCount(w, parts[0])
	case parts[1] == "_search":
		f.serveSearch(w, r, parts[0])
	default:
		writeError(w, http.StatusBadRequest, "illegal_argument_exception", "unsupported path "+r.URL.Path)
	}
}

func (f *FakeElasticsearch) serveIndex(w http.ResponseWriter, r *http.Request, index string) {
	idx, exists := f.indices[index]

	switch r.Method {
	case http.MethodHead:
		if exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case http.MethodPut:
		if exists {
			writeError(w, http.StatusBadRequest, "resource_already_exists_exception",
				fmt.Sprintf("index [%s/fake] already exists", index))
			return
		}
		body := map[string]interface{}{}
		if err := decode(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "parse_exception", err.Error())
			return
		}
		f.indices[index] = &fakeIndex{body: body}
		writeJson(w, http.StatusOK, map[string]interface{}{
			"acknowledged":        true,
			"shards_acknowledged": true,
			"index":               index,
		})
	case http.MethodGet:
		if !exists {
			writeError(w, http.StatusNotFound, "index_not_found_exception", "no such index ["+index+"]")
			return
		}
		writeJson(w, http.StatusOK, map[string]interface{}{index: idx.body})
	default:
		writeError(w, http.StatusMethodNotAllowed, "illegal_argument_exception", r.Method)
	}
}

func (f *FakeElasticsearch) serveDocument(w http.ResponseWriter, r *http.Request, index string) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "illegal_argument_exception", r.Method)
		return
	}
	if reason, ok := f.rejected[index]; ok {
		writeError(w, http.StatusBadRequest, "mapper_parsing_exception", reason)
		return
	}

	doc := map[string]interface{}{}
	if err := decode(r, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "mapper_parsing_exception", err.Error())
		return
	}

	// indices are created on first write, as elasticsearch does
	idx, ok := f.indices[index]
	if !ok {
		idx = &fakeIndex{body: map[string]interface{}{}}
		f.indices[index] = idx
	}
	idx.docs = append(idx.docs, doc)

	writeJson(w, http.StatusCreated, map[string]interface{}{
		"_index":   index,
		"_type":    "_doc",
		"_id":      fmt.Sprintf("%d", len(idx.docs)),
		"_version": 1,
		"result":   "created",
	})
}

func (f *FakeElasticsearch) serveCount(w http.ResponseWriter, index string) {
	idx, ok := f.indices[index]
	if !ok {
		writeError(w, http.StatusNotFound, "index_not_found_exception", "no such index ["+index+"]")
		return
	}
	writeJson(w, http.StatusOK, map[string]interface{}{"count": len(idx.docs)})
}

func (f *FakeElasticsearch) serveSearch(w http.ResponseWriter, r *http.Request, index string) {
	idx, ok := f.indices[index]
	if !ok {
		writeError(w, http.StatusNotFound, "index_not_found_exception", "no such index ["+index+"]")
		return
	}

	body := map[string]interface{}{}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "parse_exception", err.Error())
		return
	}

	matched := []map[string]interface{}{}
	for _, doc := range idx.docs {
		query, _ := body["query"].(map[string]interface{})
		if query == nil || matches(query, doc) {
			matched = append(matched, doc)
		}
	}

	if sortBy, ok := body["sort"].([]interface{}); ok && len(sortBy) > 0 {
		if clause, ok := sortBy[0].(map[string]interface{}); ok {
			for field, options := range clause {
				desc := false
				if o, ok := options.(map[string]interface{}); ok {
					desc = o["order"] == "desc"
				}
				sort.SliceStable(matched, func(i, j int) bool {
					if desc {
						return number(matched[i][field]) > number(matched[j][field])
					}
					return number(matched[i][field]) < number(matched[j][field])
				})
			}
		}
	}

	total := len(matched)
	if size, ok := body["size"].(json.Number); ok {
		if n, err := size.Int64(); err == nil && int(n) < len(matched) {
			matched = matched[:n]
		}
	}

	hits := []map[string]interface{}{}
	for i, doc := range matched {
		hits = append(hits, map[string]interface{}{
			"_index":  index,
			"_type":   "_doc",
			"_id":     fmt.Sprintf("%d", i+1),
			"_source": doc,
		})
	}

	writeJson(w, http.StatusOK, map[string]interface{}{
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": total, "relation": "eq"},
			"hits":  hits,
		},
	})
}

// matches understands match_all, term, bool (filter/must) and
// query_string with glob patterns.
func matches(query map[string]interface{}, doc map[string]interface{}) bool {
	for kind, clause := range query {
		switch kind {
		case "match_all":
		case "term":
			for field, value := range clause.(map[string]interface{}) {
				if fmt.Sprint(doc[field]) != fmt.Sprint(value) {
					return false
				}
			}
		case "bool":
			for _, occur := range []string{"filter", "must"} {
				for _, sub := range clauses(clause.(map[string]interface{})[occur]) {
					if !matches(sub, doc) {
						return false
					}
				}
			}
		case "query_string":
			qs := clause.(map[string]interface{})
			pattern := fmt.Sprint(qs["query"])
			fields, _ := qs["fields"].([]interface{})
			for _, field := range fields {
				value, ok := doc[fmt.Sprint(field)]
				if !ok {
					return false
				}
				if m, _ := path.Match(pattern, fmt.Sprint(value)); !m {
					return false
				}
			}
		default:
			return false
		}
	}
	return true
}

func clauses(v interface{}) []map[string]interface{} {
	switch c := v.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{c}
	case []interface{}:
		out := []map[string]interface{}{}
		for _, item := range c {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func number(v interface{}) float64 {
	if n, ok := v.(json.Number); ok {
		f, _ := n.Float64()
		return f
	}
	return 0
}

func decode(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	d := json.NewDecoder(r.Body)
	d.UseNumber()
	if err := d.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func roundTrip(v map[string]interface{}, useNumber bool) map[string]interface{} {
	b, _ := json.Marshal(v)
	out := map[string]interface{}{}
	d := json.NewDecoder(strings.NewReader(string(b)))
	if useNumber {
		d.UseNumber()
	}
	d.Decode(&out)
	return out
}

func writeError(w http.ResponseWriter, status int, errType string, reason string) {
	writeJson(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"type":   errType,
			"reason": reason,
		},
		"status": status,
	})
}

func writeJson(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Normalize renders doc the way it reads back from the fake, with
// every number as float64.
func Normalize(doc map[string]interface{}) map[string]interface{} {
	return roundTrip(doc, false)
}
