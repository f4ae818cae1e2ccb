package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"ai_creative_builder/generator"
	"ai_creative_builder/presets"
	"ai_creative_builder/render"
)

//go:embed web/dist web/dist/* web/dist/assets/*
var embeddedStatic embed.FS

// generateTimeout bounds one model call made on behalf of an HTTP request.
const generateTimeout = 60 * time.Second

// MaxVariations caps how many variations a single form submit may ask for.
const MaxVariations = 10

// maxBodyBytes limits a creatives request body.
const maxBodyBytes = 64 << 10

type Server struct {
	agent      *generator.Agent
	agentErr   error
	presets    *presets.Table
	variations int
	logger     zerolog.Logger
	staticFS   http.Handler
}

// New builds the HTTP server. agent may be nil when agentErr explains why
// (typically generator.ErrMissingCredential): the form still loads and
// generate requests report the configuration problem.
func New(agent *generator.Agent, agentErr error, table *presets.Table, defaultVariations int, logger zerolog.Logger) (*Server, error) {
	if agent == nil && agentErr == nil {
		return nil, errors.New("generator agent required")
	}
	if table == nil {
		return nil, errors.New("preset table required")
	}
	if defaultVariations < 1 {
		defaultVariations = generator.DefaultVariationCount
	}

	sub, err := fs.Sub(embeddedStatic, "web/dist")
	if err != nil {
		return nil, err
	}

	return &Server{
		agent:      agent,
		agentErr:   agentErr,
		presets:    table,
		variations: defaultVariations,
		logger:     logger,
		staticFS:   http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.middlewares()...)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Post("/creatives", s.handleCreatives)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found", "no such endpoint")
		})
	})
	r.NotFound(s.staticHandler().ServeHTTP)
	return r
}

// middlewares 顺序：accessLog 包在 Recoverer 外面，panic 的请求也会记一条 500。
func (s *Server) middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{requestID, middleware.RealIP, accessLog(s.logger), middleware.Recoverer}
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		// 非静态资源一律回到 index.html；FileServer 会把 /index.html 重定向，所以改写成 "/"。
		if !strings.HasPrefix(r.URL.Path, "/assets/") {
			r.URL.Path = "/"
		}
		s.staticFS.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type presetResp struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type optionsResp struct {
	Tones       []generator.Tone    `json:"tones"`
	Channels    []generator.Channel `json:"channels"`
	Presets     []presetResp        `json:"presets"`
	Mode        string              `json:"mode"`
	Model       string              `json:"model,omitempty"`
	Variations  int                 `json:"variations"`
	Configured  bool                `json:"configured"`
	ConfigIssue string              `json:"config_issue,omitempty"`
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	resp := optionsResp{
		Tones:      generator.Tones,
		Channels:   generator.Channels,
		Variations: s.variations,
		Configured: s.agent != nil,
	}
	for _, p := range s.presets.All() {
		resp.Presets = append(resp.Presets, presetResp{Name: p.Name, Description: p.Description})
	}
	if s.agent != nil {
		resp.Mode = s.agent.Mode().String()
		resp.Model = s.agent.Model()
	} else {
		resp.ConfigIssue = s.agentErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

type creativeReq struct {
	ProductName  string `json:"product_name"`
	BrandTone    string `json:"brand_tone"`
	Channel      string `json:"channel"`
	ExtraContext string `json:"extra_context"`
	Preset       string `json:"preset"`
	Variations   int    `json:"variations"`
}

func (s *Server) handleCreatives(w http.ResponseWriter, r *http.Request) {
	var body creativeReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req, err := s.buildRequest(body)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, generator.ErrMissingProductName) {
			msg = "Please enter a product name first."
		}
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	if s.agent == nil {
		code := "config_error"
		if errors.Is(s.agentErr, generator.ErrMissingCredential) {
			code = "missing_credential"
		}
		writeError(w, http.StatusServiceUnavailable, code, s.agentErr.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()
	res, err := s.agent.Generate(ctx, req)
	if err != nil {
		writeError(w, http.StatusBadGateway, "transport_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, render.NewView(res, s.agent.Model()))
}

func (s *Server) buildRequest(body creativeReq) (generator.CreativeRequest, error) {
	if strings.TrimSpace(body.ProductName) == "" {
		return generator.CreativeRequest{}, generator.ErrMissingProductName
	}
	tone, err := generator.ParseTone(body.BrandTone)
	if err != nil {
		return generator.CreativeRequest{}, err
	}
	channel, err := generator.ParseChannel(body.Channel)
	if err != nil {
		return generator.CreativeRequest{}, err
	}
	preset, err := s.presets.Resolve(body.Preset)
	if err != nil {
		return generator.CreativeRequest{}, err
	}
	n := body.Variations
	if n == 0 {
		n = s.variations
	}
	if n > MaxVariations {
		return generator.CreativeRequest{}, fmt.Errorf("at most %d variations per request", MaxVariations)
	}
	return generator.NewCreativeRequest(body.ProductName, tone, channel, body.ExtraContext, preset, n)
}

// --- Helpers ---

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]apiError{"error": {Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
