package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-sirs/pkg/config"
	"github.com/dd0wney/cluso-sirs/pkg/health"
	"github.com/dd0wney/cluso-sirs/pkg/logging"
	"github.com/dd0wney/cluso-sirs/pkg/metrics"
	"github.com/dd0wney/cluso-sirs/pkg/simulation"
)

func smallConfig(iterations int) *config.Config {
	cfg := config.Default()
	cfg.Simulation.Population = 8
	cfg.Simulation.Iterations = iterations
	cfg.Simulation.Seed = 11
	return cfg
}

func TestRunHeadless_Text(t *testing.T) {
	var buf bytes.Buffer
	err := runHeadless(context.Background(), smallConfig(3), logging.NewNopLogger(), &buf, runOutput{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, "t="+string(rune('0'+i))), "line %d: %q", i, line)
	}
	assert.Contains(t, lines[0], "S=28")
	assert.Contains(t, lines[0], "I=4")
	assert.Contains(t, lines[0], "R=0")
}

func TestRunHeadless_PerCommunity(t *testing.T) {
	var buf bytes.Buffer
	err := runHeadless(context.Background(), smallConfig(0), logging.NewNopLogger(), &buf, runOutput{perCommunity: true})
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{"[1]", "[2]", "[3]", "[4]", "n=8"} {
		assert.Contains(t, out, want)
	}
}

func TestRunHeadless_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := runHeadless(context.Background(), smallConfig(2), logging.NewNopLogger(), &buf, runOutput{json: true})
	require.NoError(t, err)

	dec := json.NewDecoder(&buf)
	var frames []simulation.Frame
	for {
		var f simulation.Frame
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		frames = append(frames, f)
	}

	require.Len(t, frames, 3)
	for i, f := range frames {
		assert.Equal(t, i, f.Global.Timestep)
		assert.Len(t, f.Communities, simulation.Communities)
		assert.Equal(t, 32, f.Global.Total())
		assert.NotEmpty(t, f.RunID)
	}
	assert.Len(t, frames[0].Communities[0].Nodes, 8)
}

func TestRunHeadless_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := runHeadless(ctx, smallConfig(5), logging.NewNopLogger(), &buf, runOutput{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "only the initial frame is written")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRunHeadless_WriteError(t *testing.T) {
	err := runHeadless(context.Background(), smallConfig(2), logging.NewNopLogger(), failingWriter{}, runOutput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestMetricsMux(t *testing.T) {
	reg := metrics.NewRegistry()
	progress := health.NewProgress(2)

	cfg := smallConfig(2)
	engine, err := simulation.New(cfg.Params(),
		simulation.WithSeed(1),
		simulation.WithMetrics(reg),
		simulation.WithObserver(simulation.ObserverFunc(func(f simulation.Frame) {
			progress.Advance(f.RunID, f.Global.Timestep)
		})),
	)
	require.NoError(t, err)
	_, err = engine.Run(2)
	require.NoError(t, err)

	srv := httptest.NewServer(newMux(reg, progress))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "sirs_compartment_individuals")
	assert.Contains(t, string(body), "sirs_timestep 2")

	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
	assert.True(t, progress.Finished())
}
