package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/buildinfo"
	"github.com/matzehuels/adcanvas/pkg/canvas"
	"github.com/matzehuels/adcanvas/pkg/compose"
	"github.com/matzehuels/adcanvas/pkg/errors"
	"github.com/matzehuels/adcanvas/pkg/placement"
	"github.com/matzehuels/adcanvas/pkg/treatment"
)

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	Image ad.Source       `json:"image"`
	Hints placement.Hints `json:"hints"`
}

// AnalyzeResponse carries the plan, or null when analysis degraded.
type AnalyzeResponse struct {
	Plan *placement.Plan `json:"plan"`
}

// ComposeResponse is the JSON body of POST /v1/compose.
type ComposeResponse struct {
	ID        string                      `json:"id"`
	Width     int                         `json:"width"`
	Height    int                         `json:"height"`
	Treatment string                      `json:"treatment"`
	Plan      placement.Plan              `json:"plan"`
	Fits      map[canvas.Role]compose.Fit `json:"fits"`
	Layers    []canvas.Layer              `json:"layers"`
}

// TreatmentsResponse is the body of GET /v1/treatments.
type TreatmentsResponse struct {
	Treatments treatment.Catalog  `json:"treatments"`
	Selected   *treatment.Profile `json:"selected,omitempty"`
}

type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Image.IsZero() {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidImage, "image is required"))
		return
	}
	if req.Hints.Format != "" && !req.Hints.Format.Valid() {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", req.Hints.Format))
		return
	}
	if req.Image.URL != "" {
		if err := errors.ValidateURL(req.Image.URL); err != nil && !isDataURI(req.Image.URL) {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Image.Path != "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidImage, "local image paths are not accepted over HTTP"))
		return
	}

	plan := s.runner.AnalyzeForPlacement(r.Context(), req.Image, req.Hints)
	writeJSON(w, http.StatusOK, AnalyzeResponse{Plan: plan})
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var res ad.Result
	if !s.decode(w, r, &res) {
		return
	}
	if res.Image.Path != "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidImage, "local image paths are not accepted over HTTP"))
		return
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}

	composer, err := s.runner.ComposeAd(r.Context(), &res)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "png" {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Generation-Id", res.ID)
		if err := canvas.RenderPNG(composer.Canvas(), s.runner.Fonts, w); err != nil {
			s.logger.Error("render preview", "id", res.ID, "error", err)
		}
		return
	}

	cv := composer.Canvas()
	writeJSON(w, http.StatusOK, ComposeResponse{
		ID:        res.ID,
		Width:     cv.Width(),
		Height:    cv.Height(),
		Treatment: composer.Treatment().ID,
		Plan:      composer.Plan(),
		Fits:      composer.Fits(),
		Layers:    composer.Layers(),
	})
}

func (s *Server) handleTreatments(w http.ResponseWriter, r *http.Request) {
	sel := s.runner.Selector
	if sel == nil {
		sel = treatment.NewSelector(nil)
	}
	resp := TreatmentsResponse{Treatments: sel.Catalog()}

	q := r.URL.Query()
	if q.Get("headline") != "" || q.Get("treatment_id") != "" {
		obj, err := ad.ParseObjective(q.Get("objective"))
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid objective"))
			return
		}
		variant := 0
		if v := q.Get("variant"); v != "" {
			if variant, err = strconv.Atoi(v); err != nil {
				s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "variant must be an integer"))
				return
			}
		}
		p := sel.Select(treatment.Input{
			Copy:        ad.Copy{Headline: q.Get("headline"), Subhead: q.Get("subhead"), CTA: q.Get("cta")},
			Objective:   obj,
			Variant:     variant,
			TreatmentID: q.Get("treatment_id"),
		})
		resp.Selected = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a size-limited JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func isDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}
