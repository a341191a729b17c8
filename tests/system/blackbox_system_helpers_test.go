//go:build system

package system_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"resume-intake/internal/catalog"
	"resume-intake/internal/domain"
	appTemporal "resume-intake/internal/temporal"
)

type sessionResponse struct {
	SessionID string             `json:"session_id"`
	State     domain.IntakeState `json:"state"`
	Message   string             `json:"message"`
}

type matchesResponse struct {
	SessionID string          `json:"session_id"`
	Results   catalog.Results `json:"results"`
}

type activityTrace struct {
	ScheduledOrder []string
	CompletedOrder []string
	Inputs         map[string]any
}

type systemTestConfig struct {
	TemporalAddress   string
	TemporalNamespace string
	TemporalTaskQueue string
	WorkflowIDPrefix  string
	APIBaseURL        string
	APIHealthPath     string
	APIReadyPath      string
	ResumeFixturePath string

	RequiredComposeServices []string

	PreflightTimeout    time.Duration
	WorkerPollerTimeout time.Duration
	CompletionTimeout   time.Duration
	PollInterval        time.Duration
}

var defaultSystemTestConfig = systemTestConfig{
	TemporalAddress:   "localhost:7233",
	TemporalNamespace: "default",
	TemporalTaskQueue: "resume-intake-task-queue",
	WorkflowIDPrefix:  "resume-intake",
	APIBaseURL:        "http://localhost:8080",
	APIHealthPath:     "/healthz",
	APIReadyPath:      "/readyz",
	ResumeFixturePath: "testdata/resume.pdf",
	RequiredComposeServices: []string{
		"temporal",
		"api",
		"worker",
	},
	PreflightTimeout:    8 * time.Second,
	WorkerPollerTimeout: 12 * time.Second,
	CompletionTimeout:   30 * time.Second,
	PollInterval:        250 * time.Millisecond,
}

func loadSystemTestConfig() systemTestConfig {
	cfg := defaultSystemTestConfig
	cfg.RequiredComposeServices = append([]string(nil), defaultSystemTestConfig.RequiredComposeServices...)

	cfg.TemporalAddress = getenv("SYSTEM_TEST_TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalNamespace = getenv("SYSTEM_TEST_TEMPORAL_NAMESPACE", cfg.TemporalNamespace)
	cfg.TemporalTaskQueue = getenv("SYSTEM_TEST_TEMPORAL_TASK_QUEUE", cfg.TemporalTaskQueue)
	cfg.WorkflowIDPrefix = getenv("SYSTEM_TEST_WORKFLOW_ID_PREFIX", cfg.WorkflowIDPrefix)
	cfg.APIBaseURL = getenv("SYSTEM_TEST_API_URL", cfg.APIBaseURL)
	cfg.APIHealthPath = getenv("SYSTEM_TEST_API_HEALTH_PATH", cfg.APIHealthPath)
	cfg.APIReadyPath = getenv("SYSTEM_TEST_API_READY_PATH", cfg.APIReadyPath)
	cfg.ResumeFixturePath = getenv("SYSTEM_TEST_RESUME_FIXTURE", cfg.ResumeFixturePath)
	cfg.PreflightTimeout = getenvDuration("SYSTEM_TEST_PREFLIGHT_TIMEOUT", cfg.PreflightTimeout)
	cfg.WorkerPollerTimeout = getenvDuration("SYSTEM_TEST_WORKER_POLLER_TIMEOUT", cfg.WorkerPollerTimeout)
	cfg.CompletionTimeout = getenvDuration("SYSTEM_TEST_COMPLETION_TIMEOUT", cfg.CompletionTimeout)
	cfg.PollInterval = getenvDuration("SYSTEM_TEST_POLL_INTERVAL", cfg.PollInterval)

	return cfg
}

func waitForTemporal(hostPort string, namespace string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		c, err := client.Dial(client.Options{
			HostPort:  hostPort,
			Namespace: namespace,
		})
		if err == nil {
			c.Close()
			return nil
		}
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("temporal not ready within %s", timeout)
}

func waitForHTTPStatus(url string, expectedStatus int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	httpClient := &http.Client{Timeout: 5 * time.Second}
	for time.Now().Before(deadline) {
		resp, err := httpClient.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == expectedStatus {
				return nil
			}
		}
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("endpoint %s did not return %d in %s", url, expectedStatus, timeout)
}

func waitForWorkerPoller(hostPort string, namespace string, taskQueue string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		c, err := client.Dial(client.Options{
			HostPort:  hostPort,
			Namespace: namespace,
		})
		if err == nil {
			resp, descErr := c.DescribeTaskQueue(context.Background(), taskQueue, enumspb.TASK_QUEUE_TYPE_WORKFLOW)
			c.Close()
			if descErr == nil && len(resp.Pollers) > 0 {
				return nil
			}
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("no worker poller found for task queue %q within %s", taskQueue, timeout)
}

// declareFixture builds the metadata a browser would send for a picked file.
func declareFixture(filePath string) (domain.CandidateFile, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return domain.CandidateFile{}, err
	}
	name := filepath.Base(filePath)
	return domain.CandidateFile{
		Name:      name,
		MediaType: domain.MediaTypeForFilename(name),
		ByteSize:  info.Size(),
	}, nil
}

func openSession(apiBaseURL string) (sessionResponse, error) {
	out, _, err := doJSON[sessionResponse](http.MethodPost, apiBaseURL+"/v1/sessions", nil)
	return out, err
}

func submitFile(apiBaseURL, sessionID string, file domain.CandidateFile, source string) (sessionResponse, int, error) {
	body := map[string]any{
		"name":       file.Name,
		"media_type": file.MediaType,
		"byte_size":  file.ByteSize,
		"source":     source,
	}
	return doJSON[sessionResponse](http.MethodPost, apiBaseURL+"/v1/sessions/"+sessionID+"/file", body)
}

func resetFile(apiBaseURL, sessionID string) (sessionResponse, error) {
	out, _, err := doJSON[sessionResponse](http.MethodDelete, apiBaseURL+"/v1/sessions/"+sessionID+"/file", nil)
	return out, err
}

func getSession(apiBaseURL, sessionID string) (sessionResponse, error) {
	out, _, err := doJSON[sessionResponse](http.MethodGet, apiBaseURL+"/v1/sessions/"+sessionID, nil)
	return out, err
}

func getMatches(apiBaseURL, sessionID string) (matchesResponse, int, error) {
	return doJSON[matchesResponse](http.MethodGet, apiBaseURL+"/v1/sessions/"+sessionID+"/matches", nil)
}

func closeSession(apiBaseURL, sessionID string) (int, error) {
	req, err := http.NewRequest(http.MethodDelete, apiBaseURL+"/v1/sessions/"+sessionID, nil)
	if err != nil {
		return 0, err
	}
	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// doJSON returns the decoded body for any 2xx or 4xx response so that callers
// can assert on rejection payloads. Server errors are returned as errors.
func doJSON[T any](method, url string, body any) (T, int, error) {
	var zero T
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return zero, 0, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return zero, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{Timeout: 15 * time.Second}).Do(req)
	if err != nil {
		return zero, 0, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, resp.StatusCode, err
	}
	if resp.StatusCode >= 500 {
		return zero, resp.StatusCode, fmt.Errorf("request failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, resp.StatusCode, err
	}
	return out, resp.StatusCode, nil
}

func collectActivityTrace(ctx context.Context, temporalClient client.Client, workflowID string) (activityTrace, error) {
	trace := activityTrace{Inputs: make(map[string]any)}
	dc := converter.GetDefaultDataConverter()
	scheduledByEventID := make(map[int64]string)

	iter := temporalClient.GetWorkflowHistory(ctx, workflowID, "", false, enumspb.HISTORY_EVENT_FILTER_TYPE_ALL_EVENT)
	for iter.HasNext() {
		event, err := iter.Next()
		if err != nil {
			return activityTrace{}, err
		}

		if scheduled := event.GetActivityTaskScheduledEventAttributes(); scheduled != nil {
			name := scheduled.GetActivityType().GetName()
			trace.ScheduledOrder = append(trace.ScheduledOrder, name)
			scheduledByEventID[event.GetEventId()] = name

			input, err := decodeActivityInput(dc, name, scheduled.GetInput())
			if err != nil {
				return activityTrace{}, err
			}
			trace.Inputs[name] = input
			continue
		}

		if completed := event.GetActivityTaskCompletedEventAttributes(); completed != nil {
			trace.CompletedOrder = append(trace.CompletedOrder, scheduledByEventID[completed.GetScheduledEventId()])
		}
	}
	return trace, nil
}

func collectUpdateNames(ctx context.Context, temporalClient client.Client, workflowID string) ([]string, error) {
	var names []string
	iter := temporalClient.GetWorkflowHistory(ctx, workflowID, "", false, enumspb.HISTORY_EVENT_FILTER_TYPE_ALL_EVENT)
	for iter.HasNext() {
		event, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if accepted := event.GetWorkflowExecutionUpdateAcceptedEventAttributes(); accepted != nil {
			names = append(names, accepted.GetAcceptedRequest().GetInput().GetName())
		}
	}
	return names, nil
}

func decodeActivityInput(dc converter.DataConverter, name string, payloads *commonpb.Payloads) (any, error) {
	if payloads == nil {
		return nil, nil
	}

	switch name {
	case "NotifyUploadCompleteActivity":
		var in appTemporal.NotifyUploadCompleteInput
		if err := dc.FromPayloads(payloads, &in); err != nil {
			return nil, err
		}
		return in, nil
	default:
		var generic map[string]any
		if err := dc.FromPayloads(payloads, &generic); err != nil {
			return nil, err
		}
		return generic, nil
	}
}

func runCommand(workdir string, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = workdir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func requireComposeServicesRunning(repoRoot string, services []string) error {
	out, err := runCommand(repoRoot, "docker", "compose", "ps", "--services", "--status", "running")
	if err != nil {
		return fmt.Errorf("failed to inspect docker compose services: %w (output: %s)", err, strings.TrimSpace(out))
	}

	running := make(map[string]struct{})
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		running[name] = struct{}{}
	}

	var missing []string
	for _, svc := range services {
		if _, ok := running[svc]; !ok {
			missing = append(missing, svc)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required compose services are not running: %s (run `docker compose up -d %s`)", strings.Join(missing, ", "), strings.Join(services, " "))
	}
	return nil
}

func getenv(key string, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func findRepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("go.mod not found from current directory")
}
