package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Olivia010207/NPS/internal/report"
	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/utils"
)

type healthResponse struct {
	Status      string `json:"status"`
	Respondents int    `json:"respondents"`
	Questions   int    `json:"questions"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ds := s.svc.Dataset()
	render.JSON(w, r, healthResponse{
		Status:      "ok",
		Respondents: ds.Responses.Len(),
		Questions:   len(ds.Schema.QuestionIDs()),
	})
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.svc.Questions())
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	qid := chi.URLParam(r, "qid")
	for _, q := range s.svc.Questions() {
		if q.QuestionID == qid {
			render.JSON(w, r, q)
			return
		}
	}
	s.fail(w, r, &survey.NotFoundError{QuestionID: qid})
}

type analysisTypeInfo struct {
	Type        report.AnalysisType `json:"type"`
	Description string              `json:"description"`
}

func (s *Server) listAnalysisTypes(w http.ResponseWriter, r *http.Request) {
	out := make([]analysisTypeInfo, len(report.AnalysisTypes))
	for i, t := range report.AnalysisTypes {
		out[i] = analysisTypeInfo{Type: t, Description: t.Description()}
	}
	render.JSON(w, r, out)
}

// analyze runs a request and returns the bundle as JSON, or as Markdown when
// ?format=markdown is given.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	b, ok := s.run(w, r)
	if !ok {
		return
	}
	if strings.EqualFold(r.URL.Query().Get("format"), "markdown") {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(b.Markdown()))
		return
	}
	render.JSON(w, r, b)
}

// export runs a request and streams the bundle as an XLSX workbook.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	b, ok := s.run(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, b); err != nil {
		s.fail(w, r, err)
		return
	}
	name := utils.SafeFileName(string(b.Type)) + "-" + b.ID[:8] + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) (*report.Bundle, bool) {
	var req report.Request
	body := http.MaxBytesReader(w, r.Body, s.opt.MaxBodyBytes)
	if err := render.DecodeJSON(body, &req); err != nil {
		s.fail(w, r, fmt.Errorf("decode request: %w", err))
		return nil, false
	}
	start := time.Now()
	b, err := s.svc.Run(r.Context(), req)
	kind := string(req.Type)
	if _, perr := report.ParseAnalysisType(kind); perr != nil {
		kind = "invalid"
	}
	s.metrics.observe(kind, start, err)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return b, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	p := problemFor(err, r)
	s.log.WarnContext(r.Context(), "request failed",
		"request_id", p.RequestID,
		"status", p.Status,
		"error", err.Error(),
	)
	_ = render.Render(w, r, p)
}
