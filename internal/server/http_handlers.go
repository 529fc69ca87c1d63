// REST API of the dynagraph daemon.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanonone/dynagraph/pkg/engine"
	"github.com/sanonone/dynagraph/pkg/temporal"
)

func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", s.router)
}

// router is the manual top-level router: it inspects the URL and delegates
// to the matching handler.
func (s *Server) router(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if strings.HasPrefix(path, "/debug/pprof") {
		switch {
		case path == "/debug/pprof/":
			pprof.Index(w, r)
		case path == "/debug/pprof/cmdline":
			pprof.Cmdline(w, r)
		case path == "/debug/pprof/profile":
			pprof.Profile(w, r)
		case path == "/debug/pprof/symbol":
			pprof.Symbol(w, r)
		case path == "/debug/pprof/trace":
			pprof.Trace(w, r)
		default:
			s.writeHTTPError(w, http.StatusNotFound, "unknown pprof endpoint")
		}
		return
	}

	if path == "/metrics" {
		promhttp.Handler().ServeHTTP(w, r)
		return
	}

	switch path {
	case "/system/save":
		s.handleSave(w, r)
		return
	case "/system/aof-rewrite":
		s.handleAOFRewrite(w, r)
		return
	}

	if id, ok := strings.CutPrefix(path, "/tasks/"); ok {
		s.handleTaskStatus(w, r, id)
		return
	}

	switch path {
	case "/graph/actions/add":
		s.handleAdd(w, r)
	case "/graph/actions/remove":
		s.handleRemove(w, r)
	case "/graph/actions/add-node":
		s.handleAddNode(w, r)
	case "/graph/actions/import":
		s.handleImport(w, r)
	case "/graph/actions/paths":
		s.handlePaths(w, r)
	case "/graph/actions/paths-async":
		s.handlePathsAsync(w, r)
	case "/graph/snapshot":
		s.handleSnapshot(w, r)
	case "/graph/slice":
		s.handleSlice(w, r)
	case "/graph/stream":
		s.handleStream(w, r)
	case "/graph/nodes":
		s.handleNodes(w, r)
	case "/graph/neighbors":
		s.handleNeighbors(w, r)
	case "/graph/degree":
		s.handleDegree(w, r)
	case "/graph/stats":
		s.handleStats(w, r)
	default:
		s.writeHTTPError(w, http.StatusNotFound, "unknown endpoint")
	}
}

// statusForError maps the engine error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, temporal.ErrNoSuchInteraction):
		return http.StatusNotFound
	case errors.Is(err, temporal.ErrInvalidInterval),
		errors.Is(err, temporal.ErrInvalidRange),
		errors.Is(err, engine.ErrBadNodeID):
		return http.StatusBadRequest
	case errors.Is(err, temporal.ErrUnsupportedOperation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	var req InteractionAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var err error
	if req.End != nil {
		err = s.Engine.AddInteractionSpan(req.U, req.V, req.T, *req.End)
	} else {
		err = s.Engine.AddInteraction(req.U, req.V, req.T)
	}
	if err != nil {
		s.writeHTTPError(w, statusForError(err), err.Error())
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	var req InteractionRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.Engine.RemoveInteraction(req.U, req.V, req.T); err != nil {
		s.writeHTTPError(w, statusForError(err), err.Error())
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	var req NodeAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.Engine.AddNode(req.Node); err != nil {
		s.writeHTTPError(w, statusForError(err), err.Error())
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "OK"})
}

// handleImport bulk-loads interaction-format lines from the request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	if err := s.Engine.ImportInteractions(r.Body); err != nil {
		s.writeHTTPError(w, statusForError(err), err.Error())
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) runPathSearch(req PathsRequest) (PathsResponse, error) {
	paths, err := s.Engine.FindPaths(req.Source, req.Target, req.Options(), req.All)
	if err != nil {
		return PathsResponse{}, err
	}
	sum := temporal.ClassifyPaths(paths)
	return PathsResponse{
		Paths:           dtoPaths(paths),
		Shortest:        dtoPaths(sum.Shortest),
		Fastest:         dtoPaths(sum.Fastest),
		Foremost:        dtoPaths(sum.Foremost),
		FastestShortest: dtoPaths(sum.FastestShortest),
		ShortestFastest: dtoPaths(sum.ShortestFastest),
	}, nil
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	var req PathsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	resp, err := s.runPathSearch(req)
	if err != nil {
		s.writeHTTPError(w, statusForError(err), err.Error())
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

// handlePathsAsync launches the search in background and returns a task id
// to poll on /tasks/{id}.
func (s *Server) handlePathsAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	var req PathsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	task := s.taskManager.NewTask()
	go func() {
		task.SetStatus(TaskStatusRunning)
		task.SetProgress(fmt.Sprintf("searching paths %s -> %s", req.Source, req.Target))
		resp, err := s.runPathSearch(req)
		if err != nil {
			task.SetError(err)
			return
		}
		task.SetResult(resp)
	}()

	s.writeHTTPResponse(w, http.StatusAccepted, map[string]string{"task_id": task.ID})
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	task, found := s.taskManager.GetTask(id)
	if !found {
		s.writeHTTPError(w, http.StatusNotFound, "unknown task id")
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, task.View())
}

func (s *Server) queryInt64(r *http.Request, name string) (int64, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parameter %q must be an integer", name)
	}
	return v, true, nil
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	t, ok, err := s.queryInt64(r, "t")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter \"t\" is required")
		return
	}

	snap := s.Engine.SnapshotAt(t)
	resp := SnapshotResponse{T: t, Directed: snap.Directed(), Nodes: snap.Nodes()}
	for _, e := range snap.Edges() {
		resp.Edges = append(resp.Edges, EdgeDTO{U: e[0], V: e[1]})
	}
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

func (s *Server) handleSlice(w http.ResponseWriter, r *http.Request) {
	from, okFrom, err := s.queryInt64(r, "from")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, okTo, err := s.queryInt64(r, "to")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !okFrom || !okTo {
		s.writeHTTPError(w, http.StatusBadRequest, "parameters \"from\" and \"to\" are required")
		return
	}

	evs, err := s.Engine.SliceEvents(from, to)
	if err != nil {
		s.writeHTTPError(w, statusForError(err), err.Error())
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]any{"events": dtoEvents(evs)})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]any{"events": dtoEvents(s.Engine.Events())})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	t, ok, err := s.queryInt64(r, "t")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	var nodes []string
	if ok {
		nodes = s.Engine.NodesAt(t)
	} else {
		nodes = s.Engine.Nodes()
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]any{"nodes": nodes})
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	node := r.URL.Query().Get("node")
	if node == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter \"node\" is required")
		return
	}
	t, ok, err := s.queryInt64(r, "t")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	var neighbors []string
	if ok {
		neighbors = s.Engine.NeighborsAt(node, t)
	} else {
		neighbors = s.Engine.Neighbors(node)
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]any{"neighbors": neighbors})
}

func (s *Server) handleDegree(w http.ResponseWriter, r *http.Request) {
	node := r.URL.Query().Get("node")
	if node == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "parameter \"node\" is required")
		return
	}
	t, ok, err := s.queryInt64(r, "t")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	var degree int
	if ok {
		degree = s.Engine.DegreeAt(node, t)
	} else {
		degree = s.Engine.Degree(node)
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]any{"node": node, "degree": degree})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	detailed := r.URL.Query().Get("detailed") == "true"
	s.writeHTTPResponse(w, http.StatusOK, s.Engine.GraphStats(detailed))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST to trigger a snapshot")
		return
	}
	if err := s.Engine.SaveSnapshot(); err != nil {
		s.writeHTTPError(w, http.StatusInternalServerError, fmt.Sprintf("snapshot failed: %v", err))
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "OK", "message": "snapshot written"})
}

func (s *Server) handleAOFRewrite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST to trigger a rewrite")
		return
	}
	if err := s.Engine.RewriteAOF(); err != nil {
		s.writeHTTPError(w, http.StatusInternalServerError, fmt.Sprintf("aof rewrite failed: %v", err))
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "OK", "message": "aof rewritten"})
}

// --- Response helpers ---

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}
