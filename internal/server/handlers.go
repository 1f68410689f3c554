package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/siteaudit/internal/log"
	"github.com/nao1215/siteaudit/internal/model"
)

// timestampFormat matches JavaScript's Date.toISOString.
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// ScanRequest is the body of POST /api/scan.
type ScanRequest struct {
	WebsiteURL    string            `json:"websiteUrl"`
	BusinessName  string            `json:"businessName,omitempty"`
	Location      string            `json:"location,omitempty"`
	SocialHandles map[string]string `json:"socialHandles,omitempty"`
}

// ScanResponse is the success body of POST /api/scan.
type ScanResponse struct {
	Success   bool              `json:"success"`
	URL       string            `json:"url"`
	Analysis  *model.ScanResult `json:"analysis"`
	Timestamp string            `json:"timestamp"`
}

// ErrorResponse is the error body of every route.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var errUnknownPlatform = errors.New("unknown social platform")

// target converts the request into a validated Target.
func (r ScanRequest) target() (model.Target, error) {
	handles := make(model.SocialHandles, len(r.SocialHandles))
	for name, handle := range r.SocialHandles {
		p := model.ParseSocialPlatform(name)
		if !p.IsValid() {
			return model.Target{}, errUnknownPlatform
		}
		handles[p] = handle
	}
	return model.NewTarget(r.WebsiteURL,
		model.WithBusinessName(r.BusinessName),
		model.WithLocation(r.Location),
		model.WithSocialHandles(handles),
	)
}

func (s *Server) handleScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	target, err := req.target()
	switch {
	case errors.Is(err, model.ErrEmptyTargetURL):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Website URL is required"})
		return
	case errors.Is(err, errUnknownPlatform):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown social platform"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid website URL"})
		return
	}

	result, err := s.scanner.Scan(c.Request.Context(), target)
	if err != nil {
		s.logger.Error("scan API error", "target", target.URL, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Analysis failed",
			Details: log.ScrubString(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, ScanResponse{
		Success:   true,
		URL:       target.URL,
		Analysis:  result,
		Timestamp: time.Now().UTC().Format(timestampFormat),
	})
}

// APIDescription is the body of GET /api/scan.
type APIDescription struct {
	Message   string    `json:"message"`
	Endpoints Endpoints `json:"endpoints"`
}

// Endpoints lists the scan API endpoints and features.
type Endpoints struct {
	Scan     string   `json:"scan"`
	Features []string `json:"features"`
}

func (s *Server) handleDescribe(c *gin.Context) {
	c.JSON(http.StatusOK, APIDescription{
		Message: "Website audit scan API is ready",
		Endpoints: Endpoints{
			Scan: "POST /api/scan",
			Features: []string{
				"Multi-provider AI analysis",
				"Concurrent module scan",
				"Revenue projections",
			},
		},
	})
}
