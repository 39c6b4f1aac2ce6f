package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gofsst/fsst/internal/config"
	"github.com/gofsst/fsst/internal/tablestore"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := &config.Config{
		Addr:           ":0",
		Environment:    "test",
		MaxSampleBytes: 1 << 20,
		MaxInputBytes:  1 << 20,
	}
	SetupRoutes(router, tablestore.New(), cfg)
	return router
}

func doRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()
	rec := doRequest(router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
}

func TestInfoReportsVersionAndLimits(t *testing.T) {
	router := newTestRouter()
	rec := doRequest(router, http.MethodGet, "/info", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode info response: %v", err)
	}
	if body["version"] == nil || body["version"] == "" {
		t.Fatalf("expected non-empty version, got %v", body["version"])
	}
	limits, ok := body["limits"].(map[string]any)
	if !ok {
		t.Fatalf("expected a limits object, got %v", body["limits"])
	}
	if limits["max_sample_bytes"] == nil || limits["max_input_bytes"] == nil {
		t.Fatalf("expected max_sample_bytes and max_input_bytes in limits, got %v", limits)
	}
}

func TestTrainImportEncodeDecodeFlow(t *testing.T) {
	router := newTestRouter()

	samples := []string{b64("hello world"), b64("hello there"), b64("hello again")}
	trainBody, _ := json.Marshal(samples)
	rec := doRequest(router, http.MethodPost, "/api/v1/tables", trainBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("train status=%d body=%s", rec.Code, rec.Body.String())
	}
	var trained TrainResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &trained); err != nil {
		t.Fatalf("decode train response: %v", err)
	}
	if trained.Handle == "" {
		t.Fatalf("expected a non-empty handle")
	}
	if trained.Dump == "" {
		t.Fatalf("expected a non-empty base64 dump in the train response")
	}

	encodeRec := doRequest(router, http.MethodPost, "/api/v1/tables/"+trained.Handle+"/encode", []byte(b64("hello world")))
	if encodeRec.Code != http.StatusOK {
		t.Fatalf("encode status=%d body=%s", encodeRec.Code, encodeRec.Body.String())
	}
	var encoded EncodeResponse
	if err := json.Unmarshal(encodeRec.Body.Bytes(), &encoded); err != nil {
		t.Fatalf("decode encode response: %v", err)
	}
	if encoded.Ratio <= 0 {
		t.Fatalf("expected a positive ratio, got %v", encoded.Ratio)
	}
	if encoded.OriginalSize != len("hello world") {
		t.Fatalf("original_size=%d, want %d", encoded.OriginalSize, len("hello world"))
	}

	decodeRec := doRequest(router, http.MethodPost, "/api/v1/tables/"+trained.Handle+"/decode", []byte(encoded.Code))
	if decodeRec.Code != http.StatusOK {
		t.Fatalf("decode status=%d body=%s", decodeRec.Code, decodeRec.Body.String())
	}
	var decoded DecodeResponse
	if err := json.Unmarshal(decodeRec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	got, err := base64.StdEncoding.DecodeString(decoded.Data)
	if err != nil {
		t.Fatalf("decode response data is not valid base64: %v", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("decoded=%q, want %q", got, "hello world")
	}

	exportRec := doRequest(router, http.MethodGet, "/api/v1/tables/"+trained.Handle+"/export", nil)
	if exportRec.Code != http.StatusOK {
		t.Fatalf("export status=%d", exportRec.Code)
	}
	var exported struct {
		Dump string `json:"dump"`
	}
	if err := json.Unmarshal(exportRec.Body.Bytes(), &exported); err != nil {
		t.Fatalf("decode export response: %v", err)
	}

	importRec := doRequest(router, http.MethodPost, "/api/v1/tables/import", []byte(exported.Dump))
	if importRec.Code != http.StatusOK {
		t.Fatalf("import status=%d body=%s", importRec.Code, importRec.Body.String())
	}

	deleteRec := doRequest(router, http.MethodDelete, "/api/v1/tables/"+trained.Handle, nil)
	if deleteRec.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", deleteRec.Code)
	}

	notFoundRec := doRequest(router, http.MethodPost, "/api/v1/tables/"+trained.Handle+"/encode", []byte(b64("x")))
	if notFoundRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", notFoundRec.Code)
	}
}

func TestTrainRequiresSampleArray(t *testing.T) {
	router := newTestRouter()
	rec := doRequest(router, http.MethodPost, "/api/v1/tables", []byte(`{}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
}

func TestTrainRejectsInvalidBase64Sample(t *testing.T) {
	router := newTestRouter()
	body, _ := json.Marshal([]string{"not valid base64!!"})
	rec := doRequest(router, http.MethodPost, "/api/v1/tables", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
}

func TestImportRejectsMalformedDump(t *testing.T) {
	router := newTestRouter()
	// A dump byte 0x05 claims 5 symbol entries with no bytes following: truncated.
	rec := doRequest(router, http.MethodPost, "/api/v1/tables/import", []byte(base64.StdEncoding.EncodeToString([]byte{0x05})))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "malformed") {
		t.Fatalf("body=%s, want mention of malformed dump", rec.Body.String())
	}
}

func TestImportRejectsInvalidBase64(t *testing.T) {
	router := newTestRouter()
	rec := doRequest(router, http.MethodPost, "/api/v1/tables/import", []byte("not valid base64!!"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
}

func TestDecodeRejectsMalformedCodeStreamWithOffset(t *testing.T) {
	router := newTestRouter()
	trainBody, _ := json.Marshal([]string{b64("abc")})
	rec := doRequest(router, http.MethodPost, "/api/v1/tables", trainBody)
	var trained TrainResponse
	json.Unmarshal(rec.Body.Bytes(), &trained)

	// A lone 0xFF is a truncated escape: offset 0.
	decodeRec := doRequest(router, http.MethodPost, "/api/v1/tables/"+trained.Handle+"/decode",
		[]byte(base64.StdEncoding.EncodeToString([]byte{0xFF})))
	if decodeRec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", decodeRec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(decodeRec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Offset == nil {
		t.Fatalf("expected a structured offset field, got none")
	}
	if *errResp.Offset != 0 {
		t.Fatalf("Offset=%d, want 0", *errResp.Offset)
	}
}

func TestEncodeRejectsOversizedInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := &config.Config{Addr: ":0", Environment: "test", MaxSampleBytes: 1 << 20, MaxInputBytes: 4}
	SetupRoutes(router, tablestore.New(), cfg)

	trainBody, _ := json.Marshal([]string{b64("abc")})
	rec := doRequest(router, http.MethodPost, "/api/v1/tables", trainBody)
	var trained TrainResponse
	json.Unmarshal(rec.Body.Bytes(), &trained)

	encodeRec := doRequest(router, http.MethodPost, "/api/v1/tables/"+trained.Handle+"/encode", []byte(b64("this is too long")))
	if encodeRec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", encodeRec.Code)
	}
}
