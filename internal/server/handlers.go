package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ja7ad/drinkrisk/pkg/risk"
	"github.com/ja7ad/drinkrisk/pkg/session"
)

// inputsPatch carries a partial input update; nil fields are left as is.
type inputsPatch struct {
	BodyMassKg    *float64  `json:"body_mass_kg"`
	DrinkVolumeMl *float64  `json:"drink_volume_ml"`
	ABVPercent    *float64  `json:"abv_percent"`
	Coefficient   *float64  `json:"coefficient"`
	Sex           *risk.Sex `json:"sex"`
}

func (p *inputsPatch) apply(in risk.Inputs) risk.Inputs {
	if p == nil {
		return in
	}
	if p.BodyMassKg != nil {
		in.BodyMassKg = *p.BodyMassKg
	}
	if p.DrinkVolumeMl != nil {
		in.DrinkVolumeMl = *p.DrinkVolumeMl
	}
	if p.ABVPercent != nil {
		in.ABVPercent = *p.ABVPercent
	}
	if p.Coefficient != nil {
		in.Coefficient = *p.Coefficient
	}
	if p.Sex != nil {
		in.Sex = *p.Sex
	}
	return in
}

type computeRequest struct {
	Inputs *inputsPatch `json:"inputs"`
	Units  int          `json:"units"`
}

type unitsRequest struct {
	Op    string `json:"op"`
	Value int    `json:"value"`
}

type sessionResponse struct {
	ID string `json:"id"`
	session.State
}

type configResponse struct {
	Policy         risk.Policy `json:"policy"`
	GramsPerKg     float64     `json:"grams_per_kg"`
	TargetPerMille float64     `json:"target_per_mille"`
	Defaults       risk.Inputs `json:"defaults"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.model.Config()
	s.writeJSON(w, http.StatusOK, configResponse{
		Policy:         cfg.Policy,
		GramsPerKg:     cfg.GramsPerKg,
		TargetPerMille: cfg.TargetPerMille,
		Defaults:       s.defaults,
	})
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	in, err := session.Check(s.model, req.Inputs.apply(s.defaults))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, http.StatusOK, session.State{
		Inputs:  in,
		Policy:  s.model.Policy(),
		Metrics: s.model.Compute(in, req.Units),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var patch inputsPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	sess, err := session.New(s.model, patch.apply(s.defaults))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	id := s.add(sess)
	s.log.Debug("session created", "id", id)

	s.writeJSON(w, http.StatusCreated, sessionResponse{ID: id.String(), State: sess.State()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		return http.StatusOK, nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid session id: %w", err))
		return
	}
	if !s.remove(id) {
		s.writeError(w, http.StatusNotFound, errSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateInputs(w http.ResponseWriter, r *http.Request) {
	var patch inputsPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		if err := sess.SetInputs(patch.apply(sess.Inputs())); err != nil {
			return http.StatusBadRequest, err
		}
		return http.StatusOK, nil
	})
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	var req unitsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		switch req.Op {
		case "set":
			sess.SetUnits(req.Value)
		case "inc":
			sess.Increment()
		case "dec":
			sess.Decrement()
		case "max":
			sess.Max()
		case "reset":
			sess.Reset()
		default:
			return http.StatusBadRequest, fmt.Errorf("%w: %q", errUnknownOp, req.Op)
		}
		return http.StatusOK, nil
	})
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		sess.DismissAlert()
		return http.StatusOK, nil
	})
}

var (
	errSessionNotFound = errors.New("session not found")
	errUnknownOp       = errors.New("unknown units op")
)

// withSession resolves {id}, runs fn under the session lock and writes the
// resulting state, or the error fn returned.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) (int, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid session id: %w", err))
		return
	}
	e, ok := s.lookup(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, errSessionNotFound)
		return
	}

	e.mu.Lock()
	status, err := fn(e.s)
	st := e.s.State()
	e.mu.Unlock()

	if err != nil {
		s.writeError(w, status, err)
		return
	}
	s.writeJSON(w, status, sessionResponse{ID: id.String(), State: st})
}

// decodeBody decodes a JSON body; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON marshals v before touching the response, so an unencodable value
// becomes a 500 instead of an empty 200.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		b = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}
