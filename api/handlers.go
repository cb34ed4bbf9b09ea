package api

import (
	"errors"
	"net/http"

	"github.com/etnz/taxreform"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	maxFormMemory = 1 << 20
	// maxBodySize caps any request body, JSON or form.
	maxBodySize = 1 << 20
)

// Calculate computes the before/after comparison of the request payload.
func (s *Server) Calculate(c *gin.Context) {
	payload, ok := s.payload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": s.engine.Compute(payload)})
}

// Estimate runs the simplified estimator on the request payload.
func (s *Server) Estimate(c *gin.Context) {
	payload, ok := s.payload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": s.engine.Estimate(payload)})
}

// Preflight answers cross-origin pre-flight requests.
func (s *Server) Preflight(c *gin.Context) {
	c.Header("Allow", allowHeader())
	c.Status(http.StatusNoContent)
}

// MethodNotAllowed refuses any method but POST.
func (s *Server) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", allowHeader())
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed", "allowed": allowed})
}

// Health reports that the server is up.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// payload reads the request body, or writes a 400 (413 when too large)
// response and returns false.
func (s *Server) payload(c *gin.Context) (map[string]any, bool) {
	payload, err := readPayload(c)
	if err != nil {
		_ = c.Error(err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large", "details": err.Error()})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "details": err.Error()})
		return nil, false
	}
	return payload, true
}

// readPayload decodes form bodies as forms and anything else as JSON.
func readPayload(c *gin.Context) (map[string]any, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		err := c.Request.ParseMultipartForm(maxFormMemory)
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		payload := make(map[string]any, len(c.Request.PostForm))
		for k, v := range c.Request.PostForm {
			payload[k] = v
		}
		return payload, nil
	default:
		return taxreform.DecodePayload(c.Request.Body)
	}
}
