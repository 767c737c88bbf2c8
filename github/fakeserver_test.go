/*
Copyright 2020 The Flux CD contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package github

import (
	"crypto/sha1" // #nosec G505
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

// fakeGitHub is an in-memory GitHub Enterprise API serving the endpoints the Client uses.
type fakeGitHub struct {
	*httptest.Server

	owner string
	token string

	mu    sync.Mutex
	repos map[string]map[string]string
	// puts records the decoded bodies of all content writes.
	puts []putRequest
	// hits counts the requests per "METHOD /path" that reached the server.
	hits map[string]int
	// authorizations records the Authorization header of every request.
	authorizations []string
	// before is called ahead of the regular handling, without holding mu.
	// Returning true ends the request.
	before func(w http.ResponseWriter, r *http.Request) bool
}

type putRequest struct {
	Path    string
	Message string
	Content string
	SHA     *string
	// RawSHA tells whether the "sha" key was present in the body at all.
	RawSHA bool
}

func newFakeGitHub(owner, token string) *fakeGitHub {
	f := &fakeGitHub{
		owner: owner,
		token: token,
		repos: map[string]map[string]string{},
		hits:  map[string]int{},
	}
	f.Server = httptest.NewServer(f)
	return f
}

// newTestClient returns a Client for repo on the fake server, with the given options appended.
func (f *fakeGitHub) newTestClient(repo string, log logr.Logger, opts ...gitprovider.ClientOption) (*Client, error) {
	cfg := gitprovider.Config{User: f.owner, RepositoryName: repo, AccessToken: f.token}
	opts = append([]gitprovider.ClientOption{gitprovider.WithDomain(f.URL), gitprovider.WithLogger(&log)}, opts...)
	return NewClient(cfg, opts...)
}

// addRepo creates repo, holding files.
func (f *fakeGitHub) addRepo(repo string, files map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contents := map[string]string{}
	for path, content := range files {
		contents[path] = content
	}
	f.repos[repo] = contents
}

func (f *fakeGitHub) file(repo, path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.repos[repo][path]
	return content, ok
}

func (f *fakeGitHub) putRequests() []putRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]putRequest(nil), f.puts...)
}

func (f *fakeGitHub) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

// blobSHA returns the git object ID of content.
func blobSHA(content string) string {
	h := sha1.New() // #nosec G401
	fmt.Fprintf(h, "blob %d\x00%s", len(content), content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message, "documentation_url": "https://docs.github.com/rest"})
}

func (f *fakeGitHub) setBefore(fn func(w http.ResponseWriter, r *http.Request) bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.before = fn
}

func (f *fakeGitHub) authHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authorizations...)
}

func (f *fakeGitHub) hasRepo(repo string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.repos[repo]
	return ok
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v3")

	f.mu.Lock()
	f.hits[r.Method+" "+path]++
	f.authorizations = append(f.authorizations, r.Header.Get("Authorization"))
	before := f.before
	f.mu.Unlock()

	if before != nil && before(w, r) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "token "+f.token {
		writeMessage(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	if r.Method == http.MethodPost && path == "/user/repos" {
		f.createRepo(w, r)
		return
	}

	// /repos/{owner}/{repo}/...
	parts := strings.SplitN(strings.TrimPrefix(path, "/repos/"), "/", 3)
	if len(parts) < 3 || parts[0] != f.owner {
		writeMessage(w, http.StatusNotFound, "Not Found")
		return
	}
	files, ok := f.repos[parts[1]]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Not Found")
		return
	}
	rest := parts[2]

	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(rest, "git/trees/"):
		f.getTree(w, r, files)
	case r.Method == http.MethodGet && strings.HasPrefix(rest, "git/blobs/"):
		f.getBlob(w, files, strings.TrimPrefix(rest, "git/blobs/"))
	case r.Method == http.MethodPut && strings.HasPrefix(rest, "contents/"):
		f.putContents(w, r, files, strings.TrimPrefix(rest, "contents/"))
	default:
		writeMessage(w, http.StatusNotFound, "Not Found")
	}
}

func (f *fakeGitHub) createRepo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Private     bool   `json:"private"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}
	if _, ok := f.repos[req.Name]; ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"message": "Repository creation failed.",
			"errors": []map[string]string{{
				"resource": "Repository",
				"code":     "custom",
				"field":    "name",
				"message":  "name already exists on this account",
			}},
			"documentation_url": "https://docs.github.com/rest/repos/repos#create-a-repository-for-the-authenticated-user",
		})
		return
	}
	f.repos[req.Name] = map[string]string{}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"name":        req.Name,
		"full_name":   f.owner + "/" + req.Name,
		"private":     req.Private,
		"description": req.Description,
	})
}

func (f *fakeGitHub) getTree(w http.ResponseWriter, r *http.Request, files map[string]string) {
	if len(files) == 0 {
		writeMessage(w, http.StatusConflict, "Git Repository is empty.")
		return
	}
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]map[string]interface{}, 0, len(paths))
	treeID := sha1.New() // #nosec G401
	for _, path := range paths {
		sha := blobSHA(files[path])
		fmt.Fprintf(treeID, "%s %s\n", path, sha)
		entries = append(entries, map[string]interface{}{
			"path": path,
			"mode": "100644",
			"type": "blob",
			"sha":  sha,
			"size": len(files[path]),
		})
	}
	treeSHA := hex.EncodeToString(treeID.Sum(nil))
	w.Header().Set("Cache-Control", "private, max-age=60, s-maxage=60")
	w.Header().Set("ETag", `"`+treeSHA+`"`)
	if r.Header.Get("If-None-Match") == `"`+treeSHA+`"` {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sha":       treeSHA,
		"tree":      entries,
		"truncated": false,
	})
}

func (f *fakeGitHub) getBlob(w http.ResponseWriter, files map[string]string, sha string) {
	for _, content := range files {
		if blobSHA(content) == sha {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"sha":      sha,
				"size":     len(content),
				"encoding": "base64",
				// GitHub breaks the content in lines of 60 characters.
				"content": wrap(base64.StdEncoding.EncodeToString([]byte(content)), 60),
			})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Not Found")
}

func wrap(s string, width int) string {
	var sb strings.Builder
	for len(s) > width {
		sb.WriteString(s[:width])
		sb.WriteString("\n")
		s = s[width:]
	}
	sb.WriteString(s)
	sb.WriteString("\n")
	return sb.String()
}

func (f *fakeGitHub) putContents(w http.ResponseWriter, r *http.Request, files map[string]string, path string) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeMessage(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}
	req := putRequest{Path: path}
	_ = json.Unmarshal(raw["message"], &req.Message)
	var encoded string
	_ = json.Unmarshal(raw["content"], &encoded)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "content is not valid Base64")
		return
	}
	req.Content = string(decoded)
	if rawSHA, ok := raw["sha"]; ok {
		req.RawSHA = true
		var sha string
		_ = json.Unmarshal(rawSHA, &sha)
		req.SHA = &sha
	}
	f.puts = append(f.puts, req)

	current, exists := files[path]
	switch {
	case exists && req.SHA == nil:
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request.\n\n\"sha\" wasn't supplied.")
		return
	case exists && *req.SHA != blobSHA(current):
		writeMessage(w, http.StatusConflict, fmt.Sprintf("%s does not match %s", path, *req.SHA))
		return
	}

	files[path] = req.Content
	status := http.StatusCreated
	if exists {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]interface{}{
		"content": map[string]interface{}{
			"name": path[strings.LastIndex(path, "/")+1:],
			"path": path,
			"sha":  blobSHA(req.Content),
		},
		"commit": map[string]interface{}{
			"message": req.Message,
		},
	})
}
