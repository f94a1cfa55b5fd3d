package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"
	"inet.af/netaddr"

	"github.com/redpwn/powupload/internal/config"
	"github.com/redpwn/powupload/internal/fault"
	"github.com/redpwn/powupload/pow"
)

// response bodies larger than this are not read
const maxBody = 1 << 20

type Client struct {
	endpoint      string
	challengePath string
	uploadPath    string
	http          *http.Client
	limiter       *rate.Limiter
}

type ChallengeResponse struct {
	Success bool   `json:"success"`
	N       uint32 `json:"N"`
	Pref    string `json:"pref"`
	TaskID  string `json:"taskId"`
	IP      string `json:"ip"`
}

type UploadResponse struct {
	Success bool `json:"success"`
	Result  struct {
		URL string `json:"url"`
	} `json:"result"`
}

func New(endpoint string, cfg *config.Config) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestRate), 1)
	}
	return &Client{
		endpoint:      strings.TrimRight(endpoint, "/"),
		challengePath: cfg.ChallengePath,
		uploadPath:    cfg.UploadPath,
		http:          &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:       limiter,
	}
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) FetchChallenge(ctx context.Context) (*pow.Challenge, error) {
	url := c.endpoint + c.challengePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	body, status, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %v: %w", url, err, fault.ErrChallengeFetchFailed)
	}
	log.Printf("challenge: %s", strings.TrimSpace(string(body)))
	if status != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d: %w", url, status, fault.ErrChallengeFetchFailed)
	}
	var r ChallengeResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode challenge: %v: %w", err, fault.ErrChallengeFetchFailed)
	}
	if !r.Success {
		return nil, fmt.Errorf("challenge refused: %w", fault.ErrChallengeFetchFailed)
	}
	chall, err := pow.DecodeChallenge(r.Pref, r.N)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, fault.ErrChallengeFetchFailed)
	}
	chall.TaskID = r.TaskID
	if r.IP != "" {
		ip, err := netaddr.ParseIP(r.IP)
		if err != nil {
			log.Printf("challenge: ignoring issuer ip %q: %s", r.IP, err)
		}
		chall.IP = ip
	}
	return chall, nil
}

func writeForm(w *multipart.Writer, path, taskID, suffix string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := w.WriteField("taskId", taskID); err != nil {
		return err
	}
	if err := w.WriteField("suff", suffix); err != nil {
		return err
	}
	return w.Close()
}

// Upload posts the file with the solved suffix and returns the URL the server assigned.
func (c *Client) Upload(ctx context.Context, path, taskID, suffix string) (string, error) {
	url := c.endpoint + c.uploadPath
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(form, path, taskID, suffix))
	}()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		pr.Close()
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	body, status, err := c.do(req)
	// unblocks the form writer if the request ended early
	pr.Close()
	if err != nil {
		return "", fmt.Errorf("post %s: %v: %w", url, err, fault.ErrUploadFailed)
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("post %s: status %d: %w", url, status, fault.ErrUploadFailed)
	}
	var r UploadResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("decode upload response: %v: %w", err, fault.ErrUploadFailed)
	}
	if !r.Success {
		return "", fmt.Errorf("upload refused: %w", fault.ErrUploadFailed)
	}
	if r.Result.URL == "" {
		return "", fmt.Errorf("upload response has no url: %w", fault.ErrUploadFailed)
	}
	return r.Result.URL, nil
}
