package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/render/nodelink"
	"github.com/matzehuels/zonelink/pkg/world"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 16

type errorResponse struct {
	Error   zerrors.Code `json:"error"`
	Message string       `json:"message"`
}

type nodeResponse struct {
	graph.SnapshotNode
	Neighbors []string `json:"neighbors,omitempty"`
}

type edgeResponse struct {
	graph.SnapshotEdge
	TimeLeft string `json:"timeLeft,omitempty"`
}

// ConnectionRequest is the body of POST /api/connections.
type ConnectionRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Category string `json:"category"`
	Hours    int    `json:"hours"`
	Minutes  int    `json:"minutes"`
}

type viewportRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type valueRequest struct {
	Value float64 `json:"value"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := zerrors.HTTPStatus(err)
	code := zerrors.GetCode(err)
	if code == "" {
		code = zerrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "route", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	respondJSON(w, status, errorResponse{Error: code, Message: zerrors.UserMessage(err)})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return zerrors.Wrap(zerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.world.Snapshot())
}

func (s *Server) handleNodes(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.world.Snapshot().Nodes)
}

func (s *Server) handleEdges(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()
	edges := s.world.Snapshot().Edges
	out := make([]edgeResponse, len(edges))
	for i, e := range edges {
		out[i] = edgeResponse{SnapshotEdge: e}
		if !e.Category.Exempt() {
			out[i].TimeLeft = world.TimeLeft(e.Expiry, now)
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleNodeAt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		s.respondError(w, r, zerrors.New(zerrors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}

	n, ok := s.world.NodeAt(x, y)
	if !ok {
		s.respondError(w, r, zerrors.New(zerrors.ErrCodeNotFound, "no zone at %g,%g", x, y))
		return
	}
	snap, _ := s.world.Snapshot().Node(n.Key())
	respondJSON(w, http.StatusOK, nodeResponse{SnapshotNode: snap, Neighbors: s.world.Neighbors(n.Key())})
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	names := []string{}
	if q != "" {
		names = append(names, s.world.Catalog().Search(q)...)
	}
	respondJSON(w, http.StatusOK, map[string][]string{"zones": names})
}

func (s *Server) handleAddConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := world.ValidateConnection(s.world.Catalog(), req.From, req.To, req.Category, req.Hours, req.Minutes); err != nil {
		s.respondError(w, r, err)
		return
	}

	e, err := s.world.AddConnection(r.Context(), req.From, req.To, graph.Category(req.Category), req.Hours, req.Minutes)
	if err != nil {
		s.respondError(w, r, zerrors.Wrap(zerrors.ErrCodeStoreUnavailable, err, "connection added but not saved"))
		return
	}
	if e == nil {
		s.respondError(w, r, zerrors.New(zerrors.ErrCodeInvalidInput, "connection rejected"))
		return
	}
	respondJSON(w, http.StatusCreated, edgeResponse{
		SnapshotEdge: graph.SnapshotEdge{ID: e.ID, Start: e.Start, End: e.End, Category: e.Category, Expiry: e.Expiry},
		TimeLeft:     world.TimeLeft(e.Expiry, time.Now()),
	})
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	zone := chi.URLParam(r, "zone")
	if len(s.world.EdgesOf(zone)) == 0 {
		s.respondError(w, r, zerrors.New(zerrors.ErrCodeNotFound, "zone %q is not on the map", zone))
		return
	}
	if err := s.world.DeleteNode(r.Context(), zone); err != nil {
		s.respondError(w, r, zerrors.Wrap(zerrors.ErrCodeStoreUnavailable, err, "zone removed but not saved"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	s.world.SortAll(r.Context())
	respondJSON(w, http.StatusOK, s.world.Snapshot())
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		s.respondError(w, r, zerrors.New(zerrors.ErrCodeInvalidInput, "width and height must be positive"))
		return
	}
	s.world.Resize(r.Context(), req.Width, req.Height)
	respondJSON(w, http.StatusOK, s.world.Snapshot())
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Value <= 0 {
		s.respondError(w, r, zerrors.New(zerrors.ErrCodeInvalidInput, "distance must be positive"))
		return
	}
	s.world.SetDistance(r.Context(), req.Value)
	respondJSON(w, http.StatusOK, s.world.Snapshot())
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Value <= 0 {
		s.respondError(w, r, zerrors.New(zerrors.ErrCodeInvalidInput, "scale must be positive"))
		return
	}
	s.world.SetScale(req.Value)
	respondJSON(w, http.StatusOK, s.world.Snapshot())
}

func (s *Server) diagramOptions(r *http.Request) nodelink.Options {
	return nodelink.Options{
		Now:       time.Now(),
		Selected:  r.URL.Query().Get("selected"),
		HomeZones: s.world.LayoutConfig().HomeZones,
	}
}

func (s *Server) handleDiagramSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(nodelink.SVG(s.world.Snapshot(), s.diagramOptions(r)))
}

func (s *Server) handleDiagramGraphviz(w http.ResponseWriter, r *http.Request) {
	format, contentType := nodelink.FormatPNG, "image/png"
	if chi.RouteContext(r.Context()).RoutePattern() == "/diagram.dot" {
		format, contentType = nodelink.FormatDOT, "text/vnd.graphviz"
	}
	dot := nodelink.ToDOT(s.world.Snapshot(), s.diagramOptions(r))
	out, err := nodelink.Render(r.Context(), dot, format)
	if err != nil {
		s.respondError(w, r, zerrors.Wrap(zerrors.ErrCodeInternal, err, "render diagram"))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(out)
}
