// Package health runs diagnostic checks against a save directory and the
// serializer configured for it.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	// StatusHealthy indicates the component is healthy
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the component is unhealthy
	StatusUnhealthy Status = "unhealthy"
	// StatusDegraded indicates the component works but some data is unusable
	StatusDegraded Status = "degraded"
	// StatusUnknown indicates the component status is unknown
	StatusUnknown Status = "unknown"
)

// Check is one named diagnostic. Run returns a status and a short message
// for display; a non-nil error forces StatusUnhealthy unless Run reported
// something worse than healthy.
type Check struct {
	Name     string
	Run      func(context.Context) (Status, string, error)
	Timeout  time.Duration
	Critical bool
}

// Result represents the result of a check
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
	Critical bool          `json:"critical"`
}

// Report is the outcome of running every registered check. Results are in
// registration order.
type Report struct {
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
	Results  []*Result     `json:"results"`
	Summary  Summary       `json:"summary"`
}

// Summary counts results by status.
type Summary struct {
	Total          int `json:"total"`
	Healthy        int `json:"healthy"`
	Unhealthy      int `json:"unhealthy"`
	Degraded       int `json:"degraded"`
	Unknown        int `json:"unknown"`
	CriticalFailed int `json:"critical_failed"`
}

// Checker manages and executes checks
type Checker struct {
	mu      sync.RWMutex
	checks  []*Check
	timeout time.Duration
}

// NewChecker creates a checker whose checks time out after timeout unless
// they set their own.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Checker{timeout: timeout}
}

// Register adds a check. Names must be unique.
func (c *Checker) Register(check *Check) error {
	if check == nil {
		return fmt.Errorf("health check cannot be nil")
	}
	if check.Name == "" {
		return fmt.Errorf("health check name cannot be empty")
	}
	if check.Run == nil {
		return fmt.Errorf("health check function cannot be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.checks {
		if existing.Name == check.Name {
			return fmt.Errorf("health check '%s' already registered", check.Name)
		}
	}
	if check.Timeout == 0 {
		check.Timeout = c.timeout
	}
	c.checks = append(c.checks, check)
	return nil
}

// Run executes all registered checks concurrently.
func (c *Checker) Run(ctx context.Context) *Report {
	start := time.Now()

	c.mu.RLock()
	checks := make([]*Check, len(c.checks))
	copy(checks, c.checks)
	c.mu.RUnlock()

	results := make([]*Result, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, check *Check) {
			defer wg.Done()
			results[i] = execute(ctx, check)
		}(i, check)
	}
	wg.Wait()

	return &Report{
		Status:   overallStatus(results),
		Duration: time.Since(start),
		Results:  results,
		Summary:  summarize(results),
	}
}

func execute(ctx context.Context, check *Check) *Result {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, check.Timeout)
	defer cancel()

	status, msg, err := check.Run(checkCtx)
	result := &Result{
		Name:     check.Name,
		Status:   status,
		Message:  msg,
		Duration: time.Since(start),
		Critical: check.Critical,
	}
	if err != nil {
		result.Error = err.Error()
		if result.Status == StatusHealthy || result.Status == "" {
			result.Status = StatusUnhealthy
		}
	}
	if result.Status == "" {
		result.Status = StatusUnknown
	}
	return result
}

func summarize(results []*Result) Summary {
	var s Summary
	for _, r := range results {
		s.Total++
		switch r.Status {
		case StatusHealthy:
			s.Healthy++
		case StatusUnhealthy:
			s.Unhealthy++
			if r.Critical {
				s.CriticalFailed++
			}
		case StatusDegraded:
			s.Degraded++
		case StatusUnknown:
			s.Unknown++
		}
	}
	return s
}

// overallStatus is unhealthy when a critical check failed or could not
// tell, degraded when anything else is not healthy.
func overallStatus(results []*Result) Status {
	if len(results) == 0 {
		return StatusUnknown
	}

	hasUnhealthy := false
	hasDegraded := false
	hasCriticalFailures := false

	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
			if r.Critical {
				hasCriticalFailures = true
			}
		case StatusDegraded:
			hasDegraded = true
		case StatusUnknown:
			if r.Critical {
				hasCriticalFailures = true
			}
		}
	}

	if hasCriticalFailures {
		return StatusUnhealthy
	}
	if hasUnhealthy || hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}
