package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{name: "Debug level JSON format", level: LevelDebug, format: FormatJSON},
		{name: "Info level JSON format", level: LevelInfo, format: FormatJSON},
		{name: "Warn level JSON format", level: LevelWarn, format: FormatJSON},
		{name: "Error level JSON format", level: LevelError, format: FormatJSON},
		{name: "Info level Text format", level: LevelInfo, format: FormatText},
		{name: "Debug level Text format", level: LevelDebug, format: FormatText},
		{name: "Default level (invalid value)", level: Level(999), format: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			if GetLogger() == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}

	InitLogger(LevelInfo, FormatJSON)
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id-123"

	newCtx := WithRequestID(ctx, requestID)

	if got := GetRequestID(newCtx); got != requestID {
		t.Errorf("Expected request ID %s, got %s", requestID, got)
	}
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "Context with request ID",
			ctx:      context.WithValue(context.Background(), RequestIDKey, "test-id"),
			expected: "test-id",
		},
		{
			name:     "Context without request ID",
			ctx:      context.Background(),
			expected: "",
		},
		{
			name:     "Context with wrong type value",
			ctx:      context.WithValue(context.Background(), RequestIDKey, 12345),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetRequestID(tt.ctx); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	if LoggerFromContext(WithRequestID(context.Background(), "test-123")) == nil {
		t.Error("Expected logger for context with request ID")
	}
	if LoggerFromContext(context.Background()) == nil {
		t.Error("Expected logger for plain context")
	}
}

func TestLoggingFunctions(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)

	tests := []struct {
		name string
		fn   func()
	}{
		{name: "Debug", fn: func() { Debug("debug message", "key", "value") }},
		{name: "Info", fn: func() { Info("info message", "key", "value") }},
		{name: "Warn", fn: func() { Warn("warning message", "key", "value") }},
		{name: "Error", fn: func() { Error("error message", "key", "value") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if output := captureLogOutput(tt.fn); output == "" {
				t.Error("Expected log output, got empty string")
			}
		})
	}
}

func TestContextLoggingFunctions(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)
	ctx := WithRequestID(context.Background(), "test-request-id")

	tests := []struct {
		name string
		fn   func()
	}{
		{name: "DebugContext", fn: func() { DebugContext(ctx, "debug message", "key", "value") }},
		{name: "InfoContext", fn: func() { InfoContext(ctx, "info message", "key", "value") }},
		{name: "WarnContext", fn: func() { WarnContext(ctx, "warning message", "key", "value") }},
		{name: "ErrorContext", fn: func() { ErrorContext(ctx, "error message", "key", "value") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(tt.fn)
			if output == "" {
				t.Error("Expected log output, got empty string")
			}
			if !strings.Contains(output, "test-request-id") {
				t.Error("Expected output to contain request ID")
			}
		})
	}
}

func TestHTTPRequest(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	output := captureLogOutput(func() {
		HTTPRequest("GET", "/snapshots", "127.0.0.1:1234", 200, 100*time.Millisecond)
	})

	if !strings.Contains(output, "GET") {
		t.Error("Expected output to contain method")
	}
	if !strings.Contains(output, "/snapshots") {
		t.Error("Expected output to contain path")
	}
	if !strings.Contains(output, "http_request") {
		t.Error("Expected output to contain http_request")
	}
}

func TestHTTPRequestContext(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)
	ctx := WithRequestID(context.Background(), "req-456")

	output := captureLogOutput(func() {
		HTTPRequestContext(ctx, "PUT", "/snapshots/draft", "10.0.0.1:9999", 201, 75*time.Millisecond)
	})

	if !strings.Contains(output, "req-456") {
		t.Error("Expected output to contain request ID")
	}
	if !strings.Contains(output, "PUT") {
		t.Error("Expected output to contain method")
	}
}

func TestDiffComputed(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	output := captureLogOutput(func() {
		DiffComputed(12, 5, 30*time.Millisecond)
	})

	if !strings.Contains(output, "diff_computed") {
		t.Error("Expected output to contain diff_computed")
	}
	if !strings.Contains(output, `"blocks":12`) {
		t.Error("Expected output to contain block count")
	}
	if !strings.Contains(output, `"revisions":5`) {
		t.Error("Expected output to contain revision count")
	}
}

func TestDiffComputedWithArgs(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	output := captureLogOutput(func() {
		DiffComputed(3, 1, 5*time.Millisecond, "author", "reviewer")
	})

	if !strings.Contains(output, "reviewer") {
		t.Error("Expected output to contain custom args")
	}
}

func TestSnapshotStored(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	output := captureLogOutput(func() {
		SnapshotStored("draft-2", "abc123", 4096)
	})

	if !strings.Contains(output, "snapshot_stored") {
		t.Error("Expected output to contain snapshot_stored")
	}
	if !strings.Contains(output, "draft-2") {
		t.Error("Expected output to contain label")
	}
	if !strings.Contains(output, "abc123") {
		t.Error("Expected output to contain hash")
	}
}

func TestWebSocketEvent(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	output := captureLogOutput(func() {
		WebSocketEvent("client_connected", 5)
	})

	if !strings.Contains(output, "client_connected") {
		t.Error("Expected output to contain event")
	}
	if !strings.Contains(output, "websocket_event") {
		t.Error("Expected output to contain websocket_event")
	}
}

func TestServerStartup(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	output := captureLogOutput(func() {
		ServerStartup("http", "HTTP/1.1", 8080)
	})

	if !strings.Contains(output, "http") {
		t.Error("Expected output to contain server type")
	}
	if !strings.Contains(output, "8080") {
		t.Error("Expected output to contain port")
	}
	if !strings.Contains(output, "server_startup") {
		t.Error("Expected output to contain server_startup")
	}
}

func TestResponseWriterWriteHeader(t *testing.T) {
	recorder := httptest.NewRecorder()
	rw := &responseWriter{
		ResponseWriter: recorder,
		statusCode:     http.StatusOK,
	}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError) // second call ignored

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, rw.statusCode)
	}
	if !rw.written {
		t.Error("Expected written flag to be true")
	}
}

func TestResponseWriterWriteDefaultsToOK(t *testing.T) {
	recorder := httptest.NewRecorder()
	rw := &responseWriter{
		ResponseWriter: recorder,
		statusCode:     http.StatusOK,
	}

	data := []byte("test data")
	n, err := rw.Write(data)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if n != len(data) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(data), n)
	}
	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, rw.statusCode)
	}
	if !rw.written {
		t.Error("Expected written flag to be true")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		existingHeader string
		checkFunc      func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:           "Generate new request ID",
			existingHeader: "",
			checkFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				if w.Header().Get("X-Request-ID") == "" {
					t.Error("Expected X-Request-ID header to be set")
				}
			},
		},
		{
			name:           "Use existing request ID from header",
			existingHeader: "existing-req-id-123",
			checkFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				if got := w.Header().Get("X-Request-ID"); got != "existing-req-id-123" {
					t.Errorf("Expected request ID 'existing-req-id-123', got '%s'", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if GetRequestID(r.Context()) == "" {
					t.Error("Expected request ID in context")
				}
				w.WriteHeader(http.StatusOK)
			})

			middleware := RequestIDMiddleware(handler)
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.existingHeader != "" {
				req.Header.Set("X-Request-ID", tt.existingHeader)
			}
			w := httptest.NewRecorder()

			middleware.ServeHTTP(w, req)

			tt.checkFunc(t, w)
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{name: "GET request", method: "GET", path: "/snapshots", statusCode: http.StatusOK},
		{name: "POST request", method: "POST", path: "/diff", statusCode: http.StatusCreated},
		{name: "Error response", method: "GET", path: "/runs/999", statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			middleware := LoggingMiddleware(handler)
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(WithRequestID(req.Context(), "test-req-id"))
			w := httptest.NewRecorder()

			output := captureLogOutput(func() {
				middleware.ServeHTTP(w, req)
			})

			if output == "" {
				t.Error("Expected log output")
			}
			if !strings.Contains(output, tt.method) {
				t.Errorf("Expected output to contain method %s", tt.method)
			}
			if !strings.Contains(output, tt.path) {
				t.Errorf("Expected output to contain path %s", tt.path)
			}
		})
	}
}

func TestCombinedMiddleware(t *testing.T) {
	InitLogger(LevelInfo, FormatJSON)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) == "" {
			t.Error("Expected request ID in context")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	middleware := CombinedMiddleware(handler)
	req := httptest.NewRequest("GET", "/combined", nil)
	w := httptest.NewRecorder()

	output := captureLogOutput(func() {
		middleware.ServeHTTP(w, req)
	})

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
	if !strings.Contains(output, "GET") {
		t.Error("Expected output to contain GET method")
	}
	if !strings.Contains(output, "/combined") {
		t.Error("Expected output to contain path")
	}
}

func TestContextKeyType(t *testing.T) {
	var key ContextKey = "test"
	if string(key) != "test" {
		t.Errorf("Expected key to be 'test', got '%s'", string(key))
	}

	if RequestIDKey != "request_id" {
		t.Errorf("Expected RequestIDKey to be 'request_id', got '%s'", RequestIDKey)
	}
}

func TestLevelConstants(t *testing.T) {
	if LevelDebug >= LevelInfo {
		t.Error("Expected LevelDebug < LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("Expected LevelInfo < LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("Expected LevelWarn < LevelError")
	}
}
