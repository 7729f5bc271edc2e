package acquisition

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trial-pts/internal/metrics"
	"github.com/yourusername/trial-pts/internal/models"
)

const defaultBaseURL = "https://clinicaltrials.gov/api/query/study_fields"

// Columns requested from the registry, matching the TrialRecord fields the
// preprocessor consumes.
const studyFields = "NCTId,BriefTitle,Phase,Condition,LeadSponsorClass,EnrollmentCount,StartDate,OverallStatus"

// ClientConfig holds configuration for the registry client.
type ClientConfig struct {
	BaseURL   string
	UserAgent string        // client-identifying header required by the upstream service
	Delay     time.Duration // fixed wait after every attempt, success or failure
	HTTP      HTTPClientConfig
}

// DefaultClientConfig returns recommended defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:   defaultBaseURL,
		UserAgent: "trial-pts/1.0 (research pipeline)",
		Delay:     time.Second,
		HTTP:      DefaultHTTPClientConfig(),
	}
}

// Client fetches one CSV record per trial identifier.
type Client struct {
	httpClient *HTTPClient
	baseURL    string
	userAgent  string
	delay      time.Duration
	logger     *logrus.Logger
}

// NewClient creates a new registry client.
func NewClient(cfg ClientConfig, logger *logrus.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		httpClient: NewHTTPClient(cfg.HTTP),
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		delay:      cfg.Delay,
		logger:     logger,
	}
}

// FetchSummary reports per-batch acquisition counts.
type FetchSummary struct {
	Requested int
	Fetched   int
	Skipped   int
	Failed    int
}

// String renders the summary for the final run log.
func (s *FetchSummary) String() string {
	return fmt.Sprintf("requested=%d fetched=%d skipped=%d failed=%d",
		s.Requested, s.Fetched, s.Skipped, s.Failed)
}

// FetchStudy issues exactly one request for one identifier and returns the
// CSV header line and data rows from the response. An empty-but-successful
// response returns no rows and no error.
func (c *Client) FetchStudy(ctx context.Context, nctID string) (header string, rows []string, err error) {
	u := fmt.Sprintf("%s?expr=%s&fields=%s&fmt=csv",
		c.baseURL, url.QueryEscape(nctID), url.QueryEscape(studyFields))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", nil, &models.AcquisitionError{NCTID: nctID, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return "", nil, &models.AcquisitionError{NCTID: nctID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", nil, &models.AcquisitionError{NCTID: nctID, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, &models.AcquisitionError{NCTID: nctID, Err: err}
	}

	lines := splitCSVLines(string(body))
	if len(lines) == 0 {
		return "", nil, nil
	}
	return lines[0], lines[1:], nil
}

// FetchAll fetches every identifier in order, writing the header row once
// (from the first successful response only) followed by each identifier's
// data rows. Errors and empty responses are logged and the batch continues;
// after every attempt the client waits the fixed delay before the next
// request. Only context cancellation aborts the batch.
func (c *Client) FetchAll(ctx context.Context, nctIDs []string, w io.Writer) (*FetchSummary, error) {
	summary := &FetchSummary{Requested: len(nctIDs)}
	bw := bufio.NewWriter(w)
	headerWritten := false

	for i, nctID := range nctIDs {
		header, rows, err := c.FetchStudy(ctx, nctID)
		switch {
		case err != nil:
			summary.Failed++
			metrics.RecordFetchError()
			c.logger.WithField("nct_id", nctID).Errorf("Fetch failed, continuing batch: %v", err)
		case len(rows) == 0:
			summary.Skipped++
			metrics.RecordFetchSkipped()
			c.logger.WithField("nct_id", nctID).Warn("Empty response, skipping identifier")
		default:
			if !headerWritten {
				fmt.Fprintln(bw, header)
				headerWritten = true
			}
			for _, row := range rows {
				fmt.Fprintln(bw, row)
			}
			summary.Fetched++
			metrics.RecordFetchSuccess()
			c.logger.WithFields(logrus.Fields{
				"nct_id": nctID,
				"rows":   len(rows),
			}).Info("Fetched trial record")
		}

		if i < len(nctIDs)-1 {
			select {
			case <-ctx.Done():
				bw.Flush()
				return summary, ctx.Err()
			case <-time.After(c.delay):
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return summary, fmt.Errorf("failed to flush output table: %w", err)
	}
	c.logger.Infof("Acquisition batch complete: %s", summary)
	return summary, nil
}

func splitCSVLines(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
