package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-buddy/internal/session"
	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	sessions      session.Store
}

// NewHandler constructs the HTTP handler that serves the mortgage and savings
// API. A nil store keeps sessions in memory.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, sessions session.Store) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if sessions == nil {
		sessions = session.NewMemoryStore()
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, sessions: sessions}

	mux := http.NewServeMux()

	// Engine endpoints
	mux.HandleFunc("/api/schedule", h.handleSchedule)
	mux.HandleFunc("/api/simulation", h.handleSimulation)
	mux.HandleFunc("/api/savings", h.handleSavings)
	mux.HandleFunc("/api/optimize", h.handleOptimize)

	// Whole-configuration endpoints
	mux.HandleFunc("/api/config", h.handleConfigUpload)
	mux.HandleFunc("/api/config/export", h.handleConfigExport)

	mux.HandleFunc("/api/session", h.handleSession)
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	id := sessionID(r)
	if id == "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("missing %s header", constants.SessionHeader), "server.handleSession")
		return
	}

	c, err := h.sessions.Load(r.Context(), id)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleSession")
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if !h.decodeJSON(w, r, &payload, "server.handleConfigExport") {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// configSectionOrder lists the sections written first when exporting; any
// other keys follow alphabetically.
var configSectionOrder = []string{"logging", "output", "mortgage", "simulation", "savings", "optimizer"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configSectionOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(constants.SessionHeader))
}

// loadSession returns the caller's session, or nil when the request carries
// no session id.
func (h *handler) loadSession(r *http.Request, op string) *session.Context {
	id := sessionID(r)
	if id == "" {
		return nil
	}
	c, err := h.sessions.Load(r.Context(), id)
	if err != nil {
		h.logger.Warn("failed to load session, starting a new one",
			zap.String("op", op),
			zap.String("session", id),
			zap.Error(err),
		)
		c = session.New()
	}
	return &c
}

func (h *handler) saveSession(r *http.Request, c *session.Context, op string) {
	if c == nil {
		return
	}
	id := sessionID(r)
	if err := h.sessions.Save(r.Context(), id, *c); err != nil {
		h.logger.Warn("failed to save session",
			zap.String("op", op),
			zap.String("session", id),
			zap.Error(err),
		)
	}
}

// decodeJSON reads a size-limited JSON body into dst. It writes the error
// response itself and reports whether decoding succeeded.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return false
	}

	if len(bytes.TrimSpace(data)) == 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "request body is empty", op)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// statusFor maps engine and validation failures to 400 and anything else to 500.
func statusFor(err error) int {
	if errors.Is(err, loans.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Microsecond).String()
}
