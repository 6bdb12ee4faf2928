package refresher

import (
	"sync"
	"testing"
	"time"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/cache"
	"asistencia-bot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	page auth.Page
	keys []string
}

type recordingInvalidator struct {
	mu    sync.Mutex
	calls []call
}

func (r *recordingInvalidator) InvalidatePage(page auth.Page, keys ...string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{page: page, keys: keys})
	return 1
}

func (r *recordingInvalidator) count(page auth.Page) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, c := range r.calls {
		if c.page == page {
			n++
		}
	}
	return n
}

func TestJobsFromConfig(t *testing.T) {
	cfg := &config.BotConfig{
		AdminRefresh:      config.DefaultAdminRefresh,
		SupervisorRefresh: config.DefaultSupervisorRefresh,
		EmployeeRefresh:   config.DefaultEmployeeRefresh,
	}

	testCases := []struct {
		page  auth.Page
		every time.Duration
		keys  []string
	}{
		{auth.PageAdmin, 2 * time.Minute, nil},
		{auth.PageSupervisor, 30 * time.Second, []string{cache.KeyRegistros, cache.KeyMisRegistros}},
		{auth.PageDashboard, 5 * time.Minute, []string{cache.KeyMisRegistros}},
	}

	jobs := JobsFromConfig(cfg)
	require.Len(t, jobs, len(testCases))

	for i, tc := range testCases {
		t.Run(string(tc.page), func(t *testing.T) {
			assert.Equal(t, tc.page, jobs[i].Page)
			assert.Equal(t, tc.every, jobs[i].Every)
			assert.Equal(t, tc.keys, jobs[i].Keys)
		})
	}
}

func TestRunInvalidatesPage(t *testing.T) {
	target := &recordingInvalidator{}
	r := New(target, nil)

	r.run(Job{Page: auth.PageSupervisor, Keys: []string{cache.KeyRegistros}})

	require.Len(t, target.calls, 1)
	assert.Equal(t, auth.PageSupervisor, target.calls[0].page)
	assert.Equal(t, []string{cache.KeyRegistros}, target.calls[0].keys)
}

func TestStartSchedulesJobs(t *testing.T) {
	target := &recordingInvalidator{}
	r := New(target, []Job{
		{Page: auth.PageSupervisor, Every: 50 * time.Millisecond},
		{Page: auth.PageAdmin, Every: 0},
	})

	require.NoError(t, r.Start())
	defer r.Stop()

	assert.Eventually(t, func() bool {
		return target.count(auth.PageSupervisor) >= 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, target.count(auth.PageAdmin), "zero period disables the job")
}
