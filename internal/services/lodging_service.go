package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
	"github.com/fedeciancaglini/trip-ai/pkg/utils"
)

const (
	mcpProtocolVersion = "2024-11-05"
	mcpSessionHeader   = "Mcp-Session-Id"
	initTimeout        = 15 * time.Second
)

// lodgingStrategy is one named way of calling the provider's search tool.
// Strategies are tried in order until one succeeds.
type lodgingStrategy struct {
	tool string
	args func(q plan_models.LodgingQuery) map[string]any
}

var defaultLodgingStrategies = []lodgingStrategy{
	{
		tool: "airbnb_search",
		args: func(q plan_models.LodgingQuery) map[string]any {
			return map[string]any{
				"location":         q.Destination,
				"checkin":          utils.FormatDate(q.CheckIn),
				"checkout":         utils.FormatDate(q.CheckOut),
				"minPrice":         q.MinPrice,
				"maxPrice":         q.MaxPrice,
				"ignoreRobotsText": true,
			}
		},
	},
	{
		tool: "search_listings",
		args: func(q plan_models.LodgingQuery) map[string]any {
			return map[string]any{
				"query":     q.Destination,
				"check_in":  utils.FormatDate(q.CheckIn),
				"check_out": utils.FormatDate(q.CheckOut),
				"price_min": q.MinPrice,
				"price_max": q.MaxPrice,
			}
		},
	},
}

// AirbnbLodgingService talks to an Airbnb MCP server over streamable HTTP.
// The MCP session is created on first use and shared by every request.
type AirbnbLodgingService struct {
	endpoint   string
	http       *http.Client
	strategies []lodgingStrategy
	logger     *zap.Logger

	initGroup singleflight.Group
	mu        sync.RWMutex
	sessionID string
	ready     bool
}

func NewAirbnbLodgingService(endpoint string, logger *zap.Logger) (*AirbnbLodgingService, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: LODGING_MCP_URL is empty", utils.ErrProviderNotConfigured)
	}
	return &AirbnbLodgingService{
		endpoint:   endpoint,
		http:       &http.Client{Timeout: 30 * time.Second},
		strategies: defaultLodgingStrategies,
		logger:     logger.With(zap.String("component", "lodging")),
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("mcp error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func (s *AirbnbLodgingService) SearchLodging(ctx context.Context, q plan_models.LodgingQuery) ([]plan_models.Listing, error) {
	if err := s.ensureSession(ctx); err != nil {
		return nil, err
	}

	var errs []error
	for _, st := range s.strategies {
		listings, err := s.callSearch(ctx, st, q)
		if errors.Is(err, errSessionExpired) {
			s.logger.Info("lodging session expired, reconnecting", zap.String("tool", st.tool))
			if err = s.ensureSession(ctx); err == nil {
				listings, err = s.callSearch(ctx, st, q)
			}
		}
		if err == nil {
			s.logger.Debug("lodging search done", zap.String("tool", st.tool), zap.Int("count", len(listings)))
			return listings, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Debug("lodging strategy failed", zap.String("tool", st.tool), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", st.tool, err))
	}
	return nil, errors.Join(errs...)
}

func (s *AirbnbLodgingService) callSearch(ctx context.Context, st lodgingStrategy, q plan_models.LodgingQuery) ([]plan_models.Listing, error) {
	params := map[string]any{
		"name":      st.tool,
		"arguments": st.args(q),
	}

	var result toolResult
	if err := s.call(ctx, "tools/call", params, &result); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, c := range result.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if result.IsError {
		return nil, fmt.Errorf("tool reported error: %s", text.String())
	}
	return parseSearchPayload(text.String(), q.Nights)
}

// ensureSession performs the MCP handshake once. Concurrent first callers
// share the same in-flight handshake; a failed handshake is retried by the
// next caller.
func (s *AirbnbLodgingService) ensureSession(ctx context.Context) error {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if ready {
		return nil
	}

	ch := s.initGroup.DoChan("init", func() (any, error) {
		s.mu.RLock()
		ready := s.ready
		s.mu.RUnlock()
		if ready {
			return nil, nil
		}

		// Detached from the first caller so its cancellation does not fail
		// the callers sharing this handshake.
		initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), initTimeout)
		defer cancel()
		return nil, s.initialize(initCtx)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return fmt.Errorf("lodging session init: %w", res.Err)
		}
		return nil
	}
}

func (s *AirbnbLodgingService) initialize(ctx context.Context) error {
	params := map[string]any{
		"protocolVersion": mcpProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "trip-ai", "version": "1.0.0"},
	}

	var result json.RawMessage
	sessionID, err := s.post(ctx, rpcRequest{JSONRPC: "2.0", ID: uuid.NewString(), Method: "initialize", Params: params}, "", &result)
	if err != nil {
		return err
	}
	if _, err := s.post(ctx, rpcRequest{JSONRPC: "2.0", Method: "notifications/initialized"}, sessionID, nil); err != nil {
		return err
	}

	s.mu.Lock()
	s.sessionID = sessionID
	s.ready = true
	s.mu.Unlock()
	s.logger.Info("lodging session ready", zap.Bool("stateful", sessionID != ""))
	return nil
}

func (s *AirbnbLodgingService) call(ctx context.Context, method string, params any, out any) error {
	s.mu.RLock()
	sessionID := s.sessionID
	s.mu.RUnlock()

	_, err := s.post(ctx, rpcRequest{JSONRPC: "2.0", ID: uuid.NewString(), Method: method, Params: params}, sessionID, out)
	if errors.Is(err, errSessionExpired) {
		s.mu.Lock()
		// another caller may already have replaced the session
		if s.sessionID == sessionID {
			s.ready = false
			s.sessionID = ""
		}
		s.mu.Unlock()
	}
	return err
}

var errSessionExpired = errors.New("mcp session expired")

// post sends one JSON-RPC message. Notifications (empty ID) expect no body.
// It returns the session id announced by the server, if any.
func (s *AirbnbLodgingService) post(ctx context.Context, msg rpcRequest, sessionID string, out any) (string, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if sessionID != "" {
		req.Header.Set(mcpSessionHeader, sessionID)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mcp http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && sessionID != "" {
		return "", errSessionExpired
	}
	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("mcp bad status: %s: %s", resp.Status, snippet)
	}

	announced := resp.Header.Get(mcpSessionHeader)
	if msg.ID == "" || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return announced, nil
	}

	raw, err := readRPCBody(resp, msg.ID)
	if err != nil {
		return "", err
	}
	var rpcResp rpcResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return "", fmt.Errorf("mcp decode: %w", err)
	}
	if rpcResp.Error != nil {
		return "", rpcResp.Error
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return "", fmt.Errorf("mcp decode result: %w", err)
	}
	return announced, nil
}

// readRPCBody returns the JSON-RPC response to request id from a plain JSON
// or an SSE body. SSE streams may interleave notifications and requests from
// the server; only the event answering id is kept.
func readRPCBody(resp *http.Response, id string) ([]byte, error) {
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		return io.ReadAll(resp.Body)
	}

	answers := func(event []byte) bool {
		var head struct {
			ID     any    `json:"id"`
			Method string `json:"method"`
		}
		if err := json.Unmarshal(event, &head); err != nil || head.Method != "" {
			return false
		}
		v, ok := head.ID.(string)
		return ok && v == id
	}

	var data bytes.Buffer
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case line == "":
			if data.Len() > 0 {
				if event := data.Bytes(); answers(event) {
					return append([]byte(nil), event...), nil
				}
				data.Reset()
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mcp stream: %w", err)
	}
	if data.Len() > 0 && answers(data.Bytes()) {
		return data.Bytes(), nil
	}
	return nil, fmt.Errorf("mcp stream: no response for request %s", id)
}

// Close ends the MCP session on the server, if one was established.
func (s *AirbnbLodgingService) Close(ctx context.Context) error {
	s.mu.Lock()
	sessionID := s.sessionID
	s.sessionID = ""
	s.ready = false
	s.mu.Unlock()

	if sessionID == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set(mcpSessionHeader, sessionID)
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
