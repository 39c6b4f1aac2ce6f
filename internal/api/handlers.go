package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gofsst/fsst"
	"github.com/gofsst/fsst/internal/config"
	"github.com/gofsst/fsst/internal/tablestore"
)

// serviceVersion is the fsstd service version reported by HandleInfo.
const serviceVersion = "0.1.0"

// Handlers groups the fsstd route handlers around a shared table store and
// the service's configured size limits.
type Handlers struct {
	store *tablestore.Store
	cfg   *config.Config
}

// ErrorResponse is the JSON envelope returned on any request failure. Offset
// is populated only when the failure is a decode-time MalformedCodeStream
// violation, carrying the byte offset into the code stream where it was
// detected.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Offset  *int   `json:"offset,omitempty"`
}

func (h *Handlers) fail(c *gin.Context, code int, label, message string) {
	c.JSON(code, ErrorResponse{Error: label, Code: code, Message: message})
}

func (h *Handlers) failDecode(c *gin.Context, err error) {
	var mcs *fsst.MalformedCodeStreamError
	if errors.As(err, &mcs) {
		offset := mcs.Offset
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "malformed code stream",
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Offset:  &offset,
		})
		return
	}
	h.fail(c, http.StatusBadRequest, "malformed code stream", err.Error())
}

// readBase64Body reads the full request body and base64-decodes it.
func readBase64Body(c *gin.Context) ([]byte, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(string(raw))
}

// TrainResponse describes the table produced by HandleTrain: a handle for
// later encode/decode calls plus the base64-encoded dump, so a caller can
// persist the table without a separate export round trip.
type TrainResponse struct {
	Handle string `json:"handle"`
	Size   int    `json:"size"`
	Dump   string `json:"dump"`
}

// HandleTrain trains a new table from the request's sample corpus — a JSON
// array of base64-encoded sample strings — and registers it in the store.
func (h *Handlers) HandleTrain(c *gin.Context) {
	var samples []string
	if err := c.ShouldBindJSON(&samples); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	decoded := make([][]byte, len(samples))
	var total int64
	for i, s := range samples {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			h.fail(c, http.StatusBadRequest, "invalid base64", fmt.Sprintf("sample %d is not valid base64", i))
			return
		}
		decoded[i] = b
		total += int64(len(b))
	}
	if total > h.cfg.MaxSampleBytes {
		h.fail(c, http.StatusBadRequest, "sample too large", "decoded sample corpus exceeds the configured limit")
		return
	}

	tbl := fsst.Train(decoded)
	handle := h.store.Put(tbl)
	c.JSON(http.StatusOK, TrainResponse{
		Handle: handle,
		Size:   tbl.Size(),
		Dump:   base64.StdEncoding.EncodeToString(tbl.Dump()),
	})
}

// HandleImport loads a table from a base64-encoded dump in the request body
// and registers it, returning a handle.
func (h *Handlers) HandleImport(c *gin.Context) {
	data, err := readBase64Body(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "invalid base64", "request body is not valid base64")
		return
	}

	tbl, err := fsst.LoadTable(data)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "malformed table dump", err.Error())
		return
	}

	handle := h.store.Put(tbl)
	c.JSON(http.StatusOK, TrainResponse{
		Handle: handle,
		Size:   tbl.Size(),
		Dump:   base64.StdEncoding.EncodeToString(tbl.Dump()),
	})
}

// HandleTableInfo reports the size of the table registered under :handle.
func (h *Handlers) HandleTableInfo(c *gin.Context) {
	tbl, ok := h.store.Get(c.Param("handle"))
	if !ok {
		h.fail(c, http.StatusNotFound, "unknown handle", "no table registered under this handle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"handle": c.Param("handle"), "size": tbl.Size()})
}

// HandleExport returns the table's dump, base64 encoded, as the "dump" field
// of a JSON object.
func (h *Handlers) HandleExport(c *gin.Context) {
	tbl, ok := h.store.Get(c.Param("handle"))
	if !ok {
		h.fail(c, http.StatusNotFound, "unknown handle", "no table registered under this handle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"dump": base64.StdEncoding.EncodeToString(tbl.Dump())})
}

// HandleDelete removes the table registered under :handle.
func (h *Handlers) HandleDelete(c *gin.Context) {
	h.store.Delete(c.Param("handle"))
	c.Status(http.StatusNoContent)
}

// EncodeResponse is the payload returned by HandleEncode: the base64 code
// stream plus the compression ratio achieved.
type EncodeResponse struct {
	Code           string  `json:"code"`
	OriginalSize   int     `json:"original_size"`
	CompressedSize int     `json:"compressed_size"`
	Ratio          float64 `json:"ratio"`
}

// HandleEncode compresses the base64-decoded request body against the table
// registered under :handle and returns the resulting code stream, base64
// encoded, along with the compression ratio achieved.
func (h *Handlers) HandleEncode(c *gin.Context) {
	tbl, ok := h.store.Get(c.Param("handle"))
	if !ok {
		h.fail(c, http.StatusNotFound, "unknown handle", "no table registered under this handle")
		return
	}

	data, err := readBase64Body(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "invalid base64", "request body is not valid base64")
		return
	}
	if int64(len(data)) > h.cfg.MaxInputBytes {
		h.fail(c, http.StatusBadRequest, "input too large", "decoded input exceeds the configured limit")
		return
	}

	comp := tbl.EncodeAll(data)
	ratio := 1.0
	if len(comp) > 0 {
		ratio = float64(len(data)) / float64(len(comp))
	}

	c.JSON(http.StatusOK, EncodeResponse{
		Code:           base64.StdEncoding.EncodeToString(comp),
		OriginalSize:   len(data),
		CompressedSize: len(comp),
		Ratio:          ratio,
	})
}

// DecodeResponse is the payload returned by HandleDecode.
type DecodeResponse struct {
	Data string `json:"data"`
}

// HandleDecode decompresses the base64-decoded request body against the
// table registered under :handle and returns the original bytes, base64
// encoded. A malformed code stream is reported as a structured
// ErrorResponse carrying the offending byte offset.
func (h *Handlers) HandleDecode(c *gin.Context) {
	tbl, ok := h.store.Get(c.Param("handle"))
	if !ok {
		h.fail(c, http.StatusNotFound, "unknown handle", "no table registered under this handle")
		return
	}

	data, err := readBase64Body(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "invalid base64", "request body is not valid base64")
		return
	}
	if int64(len(data)) > h.cfg.MaxInputBytes {
		h.fail(c, http.StatusBadRequest, "input too large", "decoded input exceeds the configured limit")
		return
	}

	decoded, err := tbl.DecodeAll(data)
	if err != nil {
		h.failDecode(c, err)
		return
	}

	c.JSON(http.StatusOK, DecodeResponse{Data: base64.StdEncoding.EncodeToString(decoded)})
}

// HandleInfo describes the service, its endpoints, version, and configured
// size limits.
func (h *Handlers) HandleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "fsstd",
		"version": serviceVersion,
		"limits": gin.H{
			"max_sample_bytes": h.cfg.MaxSampleBytes,
			"max_input_bytes":  h.cfg.MaxInputBytes,
		},
		"endpoints": gin.H{
			"train":  "POST /api/v1/tables",
			"import": "POST /api/v1/tables/import",
			"info":   "GET /api/v1/tables/:handle",
			"export": "GET /api/v1/tables/:handle/export",
			"delete": "DELETE /api/v1/tables/:handle",
			"encode": "POST /api/v1/tables/:handle/encode",
			"decode": "POST /api/v1/tables/:handle/decode",
			"health": "GET /health",
		},
		"tables_loaded": h.store.Len(),
	})
}

// HandleHealth is a liveness probe.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "fsstd"})
}
