// Package client provides a Go client for the DynaGraph HTTP API.
//
// It offers a type-safe way to perform all major operations:
//   - Recording interactions and nodes (AddInteraction, AddInteractionSpan,
//     AddNode, RemoveInteraction, Import).
//   - Querying the temporal structure (Snapshot, Slice, Stream, Nodes,
//     Neighbors, Degree, Stats).
//   - Time-respecting path search, synchronous and asynchronous.
//   - System administration (Save, AOFRewrite, task polling).
//
// The client handles HTTP communication, JSON serialization and standardized
// error handling.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// --- Custom Errors ---

// APIError represents an error returned by the DynaGraph API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// --- JSON Response Structs ---

// Hop is one step of a time-respecting path.
type Hop struct {
	U string `json:"u"`
	V string `json:"v"`
	T int64  `json:"t"`
}

// PathsResult carries the enumerated paths plus the optimality buckets.
type PathsResult struct {
	Paths           [][]Hop `json:"paths"`
	Shortest        [][]Hop `json:"shortest,omitempty"`
	Fastest         [][]Hop `json:"fastest,omitempty"`
	Foremost        [][]Hop `json:"foremost,omitempty"`
	FastestShortest [][]Hop `json:"fastest_shortest,omitempty"`
	ShortestFastest [][]Hop `json:"shortest_fastest,omitempty"`
}

// Event is one element of the chronological interaction stream.
type Event struct {
	U  string `json:"u"`
	V  string `json:"v"`
	Op string `json:"op"`
	T  int64  `json:"t"`
}

// Edge is one edge of a static snapshot.
type Edge struct {
	U string `json:"u"`
	V string `json:"v"`
}

// Snapshot is the static graph derived at one instant.
type Snapshot struct {
	T        int64    `json:"t"`
	Directed bool     `json:"directed"`
	Nodes    []string `json:"nodes"`
	Edges    []Edge   `json:"edges"`
}

// Stats summarizes the server's graph.
type Stats struct {
	Directed     bool          `json:"directed"`
	AppendOnly   bool          `json:"append_only"`
	Nodes        int           `json:"nodes"`
	Interactions int           `json:"interactions"`
	SnapshotIDs  int           `json:"snapshot_ids"`
	PerSnapshot  map[int64]int `json:"interactions_per_snapshot,omitempty"`
}

// PathsQuery parameterizes a path search.
type PathsQuery struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Start   *int64 `json:"start,omitempty"`
	End     *int64 `json:"end,omitempty"`
	MaxWait *int64 `json:"max_wait,omitempty"`
	Sample  int    `json:"sample,omitempty"`
	All     bool   `json:"all,omitempty"`
}

// Task represents an asynchronous operation on the DynaGraph server.
type Task struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	ProgressMessage string `json:"progress_message,omitempty"`
	Error           string `json:"error,omitempty"`
	Result          any    `json:"result,omitempty"`

	client *Client // Reference to the client for polling.
}

// --- Client ---

// Client is the Go client for interacting with DynaGraph.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// New creates a new DynaGraph client. Pass an empty token when the server
// runs without authentication.
func New(host string, port int, token string) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d", host, port),
		authToken:  token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewFromURL creates a client against a full base URL, e.g. a test server.
func NewFromURL(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		authToken:  token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// jsonRequest is the helper every API call goes through. It handles JSON
// serialization, the HTTP exchange and error mapping.
func (c *Client) jsonRequest(method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(respBody, &errResp) == nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp["error"]}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

// Refresh updates the task's status by querying the server.
func (t *Task) Refresh() error {
	if t.client == nil {
		return fmt.Errorf("client is not associated with the task")
	}
	updated, err := t.client.GetTaskStatus(t.ID)
	if err != nil {
		return err
	}
	t.Status = updated.Status
	t.ProgressMessage = updated.ProgressMessage
	t.Error = updated.Error
	t.Result = updated.Result
	return nil
}

// Wait blocks until the task is completed, checking its status at regular intervals.
func (t *Task) Wait(interval, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-timer.C:
			return fmt.Errorf("timeout exceeded while waiting for task %s", t.ID)
		case <-ticker.C:
			if err := t.Refresh(); err != nil {
				return err
			}
			switch t.Status {
			case "completed":
				return nil
			case "failed":
				return fmt.Errorf("task %s failed with error: %s", t.ID, t.Error)
			case "running", "started":
				// Continue waiting.
			default:
				return fmt.Errorf("unknown task status: %s", t.Status)
			}
		}
	}
}

// --- Write Methods ---

// AddNode registers an isolated node.
func (c *Client) AddNode(node string) error {
	_, err := c.jsonRequest(http.MethodPost, "/graph/actions/add-node", map[string]string{"node": node})
	return err
}

// AddInteraction records open-ended presence of (u, v) from t on.
func (c *Client) AddInteraction(u, v string, t int64) error {
	payload := map[string]any{"u": u, "v": v, "t": t}
	_, err := c.jsonRequest(http.MethodPost, "/graph/actions/add", payload)
	return err
}

// AddInteractionSpan records presence of (u, v) over [t, end).
func (c *Client) AddInteractionSpan(u, v string, t, end int64) error {
	payload := map[string]any{"u": u, "v": v, "t": t, "end": end}
	_, err := c.jsonRequest(http.MethodPost, "/graph/actions/add", payload)
	return err
}

// RemoveInteraction ends the presence of (u, v) at t.
func (c *Client) RemoveInteraction(u, v string, t int64) error {
	payload := map[string]any{"u": u, "v": v, "t": t}
	_, err := c.jsonRequest(http.MethodPost, "/graph/actions/remove", payload)
	return err
}

// Import bulk-loads interaction-format lines ("u v op t", one per line).
func (c *Client) Import(lines string) error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/graph/actions/import", strings.NewReader(lines))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return nil
}

// --- Query Methods ---

// Snapshot retrieves the static graph at instant t.
func (c *Client) Snapshot(t int64) (*Snapshot, error) {
	respBody, err := c.jsonRequest(http.MethodGet, "/graph/snapshot?t="+strconv.FormatInt(t, 10), nil)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(respBody, &snap); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Snapshot: %w", err)
	}
	return &snap, nil
}

// Slice retrieves the event stream of the sub-graph restricted to [from, to].
func (c *Client) Slice(from, to int64) ([]Event, error) {
	endpoint := fmt.Sprintf("/graph/slice?from=%d&to=%d", from, to)
	respBody, err := c.jsonRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Slice: %w", err)
	}
	return resp.Events, nil
}

// Stream retrieves the full chronological event stream.
func (c *Client) Stream() ([]Event, error) {
	respBody, err := c.jsonRequest(http.MethodGet, "/graph/stream", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Stream: %w", err)
	}
	return resp.Events, nil
}

// Nodes lists every node of the flattened graph.
func (c *Client) Nodes() ([]string, error) {
	return c.nodeList("/graph/nodes")
}

// NodesAt lists the nodes present at t.
func (c *Client) NodesAt(t int64) ([]string, error) {
	return c.nodeList("/graph/nodes?t=" + strconv.FormatInt(t, 10))
}

func (c *Client) nodeList(endpoint string) ([]string, error) {
	respBody, err := c.jsonRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Nodes []string `json:"nodes"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Nodes: %w", err)
	}
	return resp.Nodes, nil
}

// Neighbors lists the nodes ever linked from node.
func (c *Client) Neighbors(node string) ([]string, error) {
	return c.neighborList("/graph/neighbors?node=" + url.QueryEscape(node))
}

// NeighborsAt lists the neighbors of node at t.
func (c *Client) NeighborsAt(node string, t int64) ([]string, error) {
	endpoint := fmt.Sprintf("/graph/neighbors?node=%s&t=%d", url.QueryEscape(node), t)
	return c.neighborList(endpoint)
}

func (c *Client) neighborList(endpoint string) ([]string, error) {
	respBody, err := c.jsonRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Neighbors []string `json:"neighbors"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Neighbors: %w", err)
	}
	return resp.Neighbors, nil
}

// Degree counts the interactions involving node over all time.
func (c *Client) Degree(node string) (int, error) {
	return c.degree("/graph/degree?node=" + url.QueryEscape(node))
}

// DegreeAt counts the interactions involving node at t.
func (c *Client) DegreeAt(node string, t int64) (int, error) {
	return c.degree(fmt.Sprintf("/graph/degree?node=%s&t=%d", url.QueryEscape(node), t))
}

func (c *Client) degree(endpoint string) (int, error) {
	respBody, err := c.jsonRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	var resp struct {
		Degree int `json:"degree"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, fmt.Errorf("invalid JSON response for Degree: %w", err)
	}
	return resp.Degree, nil
}

// Stats retrieves the graph summary.
func (c *Client) Stats(detailed bool) (*Stats, error) {
	endpoint := "/graph/stats"
	if detailed {
		endpoint += "?detailed=true"
	}
	respBody, err := c.jsonRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var st Stats
	if err := json.Unmarshal(respBody, &st); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Stats: %w", err)
	}
	return &st, nil
}

// FindPaths runs a synchronous time-respecting path search.
func (c *Client) FindPaths(q PathsQuery) (*PathsResult, error) {
	respBody, err := c.jsonRequest(http.MethodPost, "/graph/actions/paths", q)
	if err != nil {
		return nil, err
	}
	var res PathsResult
	if err := json.Unmarshal(respBody, &res); err != nil {
		return nil, fmt.Errorf("invalid JSON response for FindPaths: %w", err)
	}
	return &res, nil
}

// FindPathsAsync starts a background path search and returns a Task.
func (c *Client) FindPathsAsync(q PathsQuery) (*Task, error) {
	respBody, err := c.jsonRequest(http.MethodPost, "/graph/actions/paths-async", q)
	if err != nil {
		return nil, err
	}
	var accepted struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(respBody, &accepted); err != nil {
		return nil, fmt.Errorf("invalid JSON response for FindPathsAsync: %w", err)
	}
	task := &Task{ID: accepted.TaskID, Status: "started", client: c}
	return task, nil
}

// --- Administration Methods ---

// Save triggers a snapshot of the graph to disk.
func (c *Client) Save() error {
	_, err := c.jsonRequest(http.MethodPost, "/system/save", nil)
	return err
}

// AOFRewrite triggers a compaction of the append-only log.
func (c *Client) AOFRewrite() error {
	_, err := c.jsonRequest(http.MethodPost, "/system/aof-rewrite", nil)
	return err
}

// GetTaskStatus retrieves the status of a long-running task.
func (c *Client) GetTaskStatus(taskID string) (*Task, error) {
	respBody, err := c.jsonRequest(http.MethodGet, "/tasks/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	var task Task
	if err := json.Unmarshal(respBody, &task); err != nil {
		return nil, fmt.Errorf("invalid JSON response for GetTaskStatus: %w", err)
	}
	task.client = c
	return &task, nil
}
