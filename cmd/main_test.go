package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/surfcast/internal/config"
	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func runCLI(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func startServer(cfg *config.Config) (string, func() error) {
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, logger.Discard(), ready) }()

	select {
	case addr := <-ready:
		return "http://" + addr, func() error {
			cancel()
			return <-done
		}
	case err := <-done:
		cancel()
		return "", func() error { return err }
	}
}

func TestRankCommand(t *testing.T) {
	convey.Convey("Given the rank command", t, func() {
		convey.Convey("When ranking for a beginner in January", func() {
			stdout, _, err := runCLI("rank", "--skill", "Beginner", "--month", "1", "--board", "Longboard")

			convey.Convey("Then it should print every spot best first", func() {
				convey.So(err, convey.ShouldBeNil)

				var out struct {
					Spots []model.RankedSpot `json:"spots"`
				}
				convey.So(json.Unmarshal([]byte(stdout), &out), convey.ShouldBeNil)
				convey.So(out.Spots, convey.ShouldHaveLength, 5)
				for i := 1; i < len(out.Spots); i++ {
					convey.So(out.Spots[i].Suitability, convey.ShouldBeLessThanOrEqualTo, out.Spots[i-1].Suitability)
				}
			})
		})

		convey.Convey("When the skill is unknown", func() {
			stdout, stderr, err := runCLI("rank", "--skill", "Expert")

			convey.Convey("Then it should print a JSON error and fail", func() {
				convey.So(errors.Is(err, errReported), convey.ShouldBeTrue)
				convey.So(errors.Is(err, model.ErrInvalidPreferences), convey.ShouldBeTrue)
				convey.So(stdout, convey.ShouldBeEmpty)

				var out map[string]string
				lines := strings.Split(strings.TrimSpace(stderr), "\n")
				convey.So(json.Unmarshal([]byte(lines[len(lines)-1]), &out), convey.ShouldBeNil)
				convey.So(out["error"], convey.ShouldContainSubstring, "Expert")
			})
		})

		convey.Convey("When the skill is missing", func() {
			_, stderr, err := runCLI("rank")

			convey.Convey("Then it should fail the same way", func() {
				convey.So(errors.Is(err, errReported), convey.ShouldBeTrue)
				convey.So(stderr, convey.ShouldContainSubstring, `"error"`)
			})
		})

		convey.Convey("When the month is out of range", func() {
			_, _, err := runCLI("rank", "--skill", "Advanced", "--month", "13")

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidPreferences), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRankCommandWithSQLiteRegistry(t *testing.T) {
	convey.Convey("Given a config file pointing at a SQLite registry", t, func() {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "surfcast.yaml")
		body := "spots_db: " + filepath.Join(dir, "spots.db") + "\nforecast_cache_ttl_s: 0\n"
		convey.So(os.WriteFile(cfgPath, []byte(body), 0o600), convey.ShouldBeNil)
		defer os.Unsetenv("SURFCAST_CONFIG")

		convey.Convey("When ranking through the CLI", func() {
			stdout, _, err := runCLI("rank", "--config", cfgPath, "--skill", "Intermediate", "--log-format", "json")

			convey.Convey("Then the seeded spots should be ranked", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stdout, convey.ShouldContainSubstring, "Arugam Bay")
				convey.So(stdout, convey.ShouldContainSubstring, "Okanda")
			})
		})
	})
}

func TestBuildSource(t *testing.T) {
	convey.Convey("Given configurations for each forecast source", t, func() {
		cases := map[string]func(*config.Config){
			"cached-mock":      func(*config.Config) {},
			"mock":             func(c *config.Config) { c.ForecastCacheTTLSeconds = 0 },
			"cached-openmeteo": func(c *config.Config) { c.ForecastSource = config.SourceOpenMeteo },
			"exec": func(c *config.Config) {
				c.ForecastSource = config.SourceExec
				c.ForecastCommand = "python3 predict.py"
				c.ForecastCacheTTLSeconds = 0
			},
		}

		for want, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			src, err := buildSource(cfg, logger.Discard(), time.Now)
			convey.So(err, convey.ShouldBeNil)
			convey.So(src.Name(), convey.ShouldEqual, want)
		}

		convey.Convey("And an unknown source should be rejected", func() {
			cfg := config.New()
			cfg.ForecastSource = "crystal-ball"
			_, err := buildSource(cfg, logger.Discard(), time.Now)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestServe(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		base, stop := startServer(cfg)
		convey.Reset(func() {
			if err := stop(); err != nil {
				t.Errorf("stop server: %v", err)
			}
		})
		convey.So(base, convey.ShouldNotBeEmpty)

		client := &http.Client{Timeout: 5 * time.Second}

		convey.Convey("Then every route should respond", func() {
			for _, path := range []string{"/healthz", "/stats", "/spots", "/forecast/chart", "/rank?skill=Beginner", "/openapi.yaml", "/api-docs", "/docs/"} {
				resp, err := client.Get(base + path)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("And the probe command should pass against it", func() {
			stdout, _, err := runCLI("probe", "--url", base, "--requests", "2")
			convey.So(err, convey.ShouldBeNil)
			convey.So(stdout, convey.ShouldContainSubstring, `"succeeded": 6`)
		})
	})
}

func TestServeRejectsBadAddress(t *testing.T) {
	convey.Convey("Given an address that cannot be bound", t, func() {
		cfg := config.New()
		cfg.Addr = "256.0.0.1:bad"
		base, stop := startServer(cfg)

		convey.Convey("Then serve should fail", func() {
			convey.So(base, convey.ShouldBeEmpty)
			convey.So(stop(), convey.ShouldNotBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And the background loop should stop with its context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("system metrics updater did not stop")
			}
		})
	})
}
