package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"blockchart/internal/model"
)

const maxBodyBytes = 1 << 16

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a JSON request body into dst. Unknown fields are rejected.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequestError{msg: fmt.Sprintf("invalid json body: %v", err)}
	}
	return nil
}

func pathID(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequestError{msg: fmt.Sprintf("invalid %s %q", name, raw)}
	}
	return id, nil
}

func writeErr(w http.ResponseWriter, err error) {
	var bad badRequestError
	if errors.As(err, &bad) {
		http.Error(w, bad.msg, http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

type pointBody struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (p pointBody) point() (model.Point, error) {
	if p.X == nil || p.Y == nil {
		return model.Point{}, badRequestError{msg: "missing x/y"}
	}
	return model.Point{X: *p.X, Y: *p.Y}, nil
}

type moveResponse struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Source  string  `json:"source"`
	Applied bool    `json:"applied"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ed.Snapshot())
}

// handleAddChild is the "+" control. Unknown parents are a no-op, not an error.
func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	n, ok := s.ed.AddChild(id)
	writeJSON(w, http.StatusOK, map[string]any{"added": ok, "node": nodeOrNil(n, ok)})
}

func nodeOrNil(n model.Node, ok bool) any {
	if !ok {
		return nil
	}
	return n
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID *int `json:"id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, err)
		return
	}
	if body.ID == nil {
		writeErr(w, badRequestError{msg: "missing id"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"payload": s.ed.DragStart(*body.ID)})
}

func (s *Server) handleDragMove(w http.ResponseWriter, r *http.Request) {
	var body pointBody
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, err)
		return
	}
	p, err := body.point()
	if err != nil {
		writeErr(w, err)
		return
	}
	mv := s.ed.DragMove(p)
	writeJSON(w, http.StatusOK, moveResponse{ID: mv.ID, X: mv.To.X, Y: mv.To.Y, Source: string(mv.Source), Applied: mv.Applied})
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Payload string   `json:"payload"`
		X       *float64 `json:"x"`
		Y       *float64 `json:"y"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, err)
		return
	}
	p, err := pointBody{X: body.X, Y: body.Y}.point()
	if err != nil {
		writeErr(w, err)
		return
	}
	mv := s.ed.Drop(body.Payload, p)
	writeJSON(w, http.StatusOK, moveResponse{ID: mv.ID, X: mv.To.X, Y: mv.To.Y, Source: string(mv.Source), Applied: mv.Applied})
}

func (s *Server) handleDragCancel(w http.ResponseWriter, r *http.Request) {
	s.ed.Cancel()
	w.WriteHeader(http.StatusNoContent)
}
