// Package intra is the HTTP client for the school intranet API. It owns the
// retry policy: 503s and transport failures are retried with linear backoff,
// authorization rejections are terminal immediately.
package intra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/credit-strategy/internal/dto"
	"github.com/noah-isme/credit-strategy/pkg/config"
	apperrors "github.com/noah-isme/credit-strategy/pkg/errors"
)

var browserHeaders = map[string]string{
	"Accept":           "application/json, text/javascript, */*; q=0.01",
	"Accept-Language":  "en-GB,en-US;q=0.9,en;q=0.8",
	"User-Agent":       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36",
	"X-Requested-With": "XMLHttpRequest",
}

// Client talks to the intranet with an authenticated session cookie.
type Client struct {
	httpClient *http.Client
	cfg        config.IntraConfig
	cookie     string
	validate   *validator.Validate
	logger     *zap.Logger

	// The credit scan and the full fetch hit the same detail endpoint for
	// the same modules; memoize per run.
	detailMemo map[string]*dto.ModuleDetail
}

// NewClient builds a Client from the intranet configuration. The cookie may
// be the full browser cookie string or just the user token.
func NewClient(cfg config.IntraConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	cookie := cfg.Cookie
	if !strings.Contains(cookie, "user=") {
		cookie = fmt.Sprintf("user=%s; gdpr=1", cookie)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		cookie:     cookie,
		validate:   validator.New(),
		logger:     logger,
		detailMemo: make(map[string]*dto.ModuleDetail),
	}
}

// ListModules fetches the course filter listing. Semester 0 returns every
// record; any other value filters on the summary's semester field.
func (c *Client) ListModules(ctx context.Context, semester int) ([]dto.ModuleSummary, error) {
	body, err := c.request(ctx, c.listURL())
	if err != nil {
		return nil, err
	}

	var list dto.ModuleList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrMalformedRecord.Code, "decode module listing")
	}

	kept := make([]dto.ModuleSummary, 0, len(list.Items))
	for _, item := range list.Items {
		if err := c.validate.Struct(item); err != nil {
			c.logger.Warn("skipping malformed module summary",
				zap.String("code", item.Code),
				zap.Error(err))
			continue
		}
		if semester != 0 && item.Semester != semester {
			continue
		}
		kept = append(kept, item)
	}
	return kept, nil
}

// GetModuleDetail fetches one module's detail record, memoized per run.
func (c *Client) GetModuleDetail(ctx context.Context, scolaryear int, code, instance string) (*dto.ModuleDetail, error) {
	key := fmt.Sprintf("%d/%s/%s", scolaryear, code, instance)
	if detail, ok := c.detailMemo[key]; ok {
		return detail, nil
	}

	endpoint := fmt.Sprintf("%s/module/%d/%s/%s/?format=json",
		c.cfg.BaseURL, scolaryear, url.PathEscape(code), url.PathEscape(instance))
	body, err := c.request(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var detail dto.ModuleDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrMalformedRecord.Code,
			fmt.Sprintf("decode module detail %s", key))
	}

	c.detailMemo[key] = &detail
	return &detail, nil
}

// GetUserProfile fetches the authenticated student's profile.
func (c *Client) GetUserProfile(ctx context.Context) (*dto.UserProfile, error) {
	body, err := c.request(ctx, c.cfg.BaseURL+"/user/?format=json")
	if err != nil {
		return nil, err
	}

	var profile dto.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrMalformedRecord.Code, "decode user profile")
	}
	if err := c.validate.Struct(profile); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrMalformedRecord.Code, "validate user profile")
	}
	return &profile, nil
}

func (c *Client) listURL() string {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("preload", "1")
	if c.cfg.Location != "" {
		// The intranet expects both the country and the campus filter.
		if idx := strings.Index(c.cfg.Location, "/"); idx > 0 {
			q.Add("location[]", c.cfg.Location[:idx])
		}
		q.Add("location[]", c.cfg.Location)
	}
	if c.cfg.Course != "" {
		q.Add("course[]", c.cfg.Course)
	}
	for _, year := range c.cfg.ScholarYears {
		q.Add("scolaryear[]", year)
	}
	return c.cfg.BaseURL + "/course/filter?" + q.Encode()
}

func (c *Client) request(ctx context.Context, endpoint string) ([]byte, error) {
	maxRetries := c.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.cfg.RetryDelay*time.Duration(attempt)); err != nil {
				return nil, apperrors.Wrap(err, apperrors.ErrTransient.Code, "retry interrupted")
			}
			c.logger.Debug("retrying intranet request",
				zap.String("url", endpoint),
				zap.Int("attempt", attempt+1))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, "build request")
		}
		for k, v := range browserHeaders {
			req.Header.Set(k, v)
		}
		req.Header.Set("Cookie", c.cookie)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, apperrors.Wrap(
				fmt.Errorf("status %d", resp.StatusCode),
				apperrors.ErrAuthorization.Code,
				"intranet rejected the session cookie")
		case resp.StatusCode >= 400:
			lastErr = fmt.Errorf("status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
			continue
		case readErr != nil:
			lastErr = readErr
			continue
		}

		return body, nil
	}

	return nil, apperrors.Wrap(lastErr, apperrors.ErrTransient.Code,
		"intranet unavailable after "+strconv.Itoa(maxRetries)+" attempts")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
