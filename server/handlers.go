package server

import (
	"net/http"

	"github.com/lixenwraith/bouncegolf/golf"
)

type createBallRequest struct {
	Identifier string `json:"identifier"`
	Color      string `json:"color"`
	Name       string `json:"name"`
}

type createBallResponse struct {
	ID golf.BallID `json:"id"`
}

type setNameRequest struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

type strokeRequest struct {
	Identifier   string  `json:"identifier"`
	AngleDegrees float64 `json:"angleDegrees"`
	Mightiness   float64 `json:"mightiness"`
}

type positionResponse struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	DX              float64 `json:"dx"`
	DY              float64 `json:"dy"`
	Ts              float64 `json:"ts"`
	Outcome         string  `json:"outcome"`
	IsStuckOnGround bool    `json:"isStuckOnGround"`
}

func (s *Server) listBalls(w http.ResponseWriter, r *http.Request) {
	balls := s.svc.Balls()
	if balls == nil {
		balls = []golf.Ball{}
	}
	writeJSON(w, http.StatusOK, balls)
}

func (s *Server) standings(w http.ResponseWriter, r *http.Request) {
	balls := s.svc.Standings()
	if balls == nil {
		balls = []golf.Ball{}
	}
	writeJSON(w, http.StatusOK, balls)
}

func (s *Server) getBall(w http.ResponseWriter, r *http.Request) {
	id, err := ballID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	b, err := s.svc.Ball(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) createBall(w http.ResponseWriter, r *http.Request) {
	var req createBallRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := s.svc.CreateBall(req.Identifier, req.Color, req.Name)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createBallResponse{ID: id})
}

func (s *Server) setName(w http.ResponseWriter, r *http.Request) {
	var req setNameRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.svc.SetName(req.Identifier, req.Name); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) stroke(w http.ResponseWriter, r *http.Request) {
	var req strokeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.svc.PublishStroke(req.Identifier, req.AngleDegrees, req.Mightiness); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getLevel(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.svc.CurrentLevel()
	if !ok {
		s.fail(w, golf.ErrNoLevel)
		return
	}
	writeJSON(w, http.StatusOK, lvl)
}

func (s *Server) createLevel(w http.ResponseWriter, r *http.Request) {
	lvl, err := s.svc.CreateLevel()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lvl)
}

func (s *Server) position(w http.ResponseWriter, r *http.Request) {
	id, err := ballID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.svc.Position(id)
	if err != nil {
		s.fail(w, err)
		return
	}

	dx, dy := p.Ball.Velocity()
	writeJSON(w, http.StatusOK, positionResponse{
		X:               p.Ball.X,
		Y:               p.Ball.Y,
		DX:              dx,
		DY:              dy,
		Ts:              p.Ball.Ts,
		Outcome:         p.Outcome.String(),
		IsStuckOnGround: p.Resting(),
	})
}
