// Command eosdetect is a reference driver for the eos detection core: it
// loads a JSON parameter file, reads one binary observation file off
// disk, runs the matching detector, records the results into a sqlite
// telemetry database and renders a quick go-echarts HTML chart of the
// outcome (a bar chart of top-K scores, or a line chart of the particle
// score history). It is demonstration tooling, not part of the core's test
// surface, in the same spirit as the teacher's cmd/tools/* one-shot
// utilities.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	eos "github.com/jplmlia/eos-go"
	"github.com/jplmlia/eos-go/internal/config"
	"github.com/jplmlia/eos-go/internal/telemetry"
)

func main() {
	var (
		configPath string
		kind       string
		inputPath  string
		dbPath     string
		chartPath  string
	)

	flag.StringVar(&configPath, "config", "", "path to a JSON eos.InitParams override file (optional)")
	flag.StringVar(&kind, "kind", "", "observation kind: thermal, spectral or particle")
	flag.StringVar(&inputPath, "input", "", "path to the binary observation file")
	flag.StringVar(&dbPath, "db", "eosdetect.db", "path to the telemetry sqlite database")
	flag.StringVar(&chartPath, "chart", "eosdetect.html", "path to write the HTML score chart")
	flag.Parse()

	if kind == "" || inputPath == "" {
		log.Fatal("usage: eosdetect -kind={thermal,spectral,particle} -input=<file> [-config=<file>] [-db=<file>] [-chart=<file>]")
	}

	p, err := loadParams(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := telemetry.Open(dbPath)
	if err != nil {
		log.Fatalf("open telemetry store: %v", err)
	}
	defer store.Close()

	logFn := func(t eos.LogType, msg string) {
		log.Printf("[%s] %s", t, msg)
		if t == eos.LogKeyValue {
			return
		}
		if err := store.InsertLogEvent(t.String(), msg, time.Now().Unix()); err != nil {
			log.Printf("telemetry: record log event: %v", err)
		}
	}

	if err := eos.Init(p, nil, logFn); err != nil {
		log.Fatalf("eos.Init: %v", err)
	}
	defer eos.Teardown()

	buf, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("read %s: %v", inputPath, err)
	}

	observationID := uuid.NewString()

	var page *components.Page
	switch kind {
	case "thermal":
		page, err = runThermal(store, observationID, buf, p.Thermal)
	case "spectral":
		page, err = runSpectral(store, observationID, buf, p.Spectral)
	case "particle":
		page, err = runParticle(store, observationID, buf, p.Particle)
	default:
		log.Fatalf("unknown -kind %q (want thermal, spectral or particle)", kind)
	}
	if err != nil {
		log.Fatalf("%s detect: %v", kind, err)
	}

	var out bytes.Buffer
	if err := page.Render(&out); err != nil {
		log.Fatalf("render chart: %v", err)
	}
	if err := os.WriteFile(chartPath, out.Bytes(), 0o644); err != nil {
		log.Fatalf("write chart: %v", err)
	}
	fmt.Printf("observation %s: wrote %s\n", observationID, chartPath)
}

func loadParams(configPath string) (eos.InitParams, error) {
	if configPath == "" {
		return eos.InitParams{Params: eos.InitDefaultParams()}, nil
	}
	return config.Load(configPath)
}

func runThermal(store *telemetry.Store, observationID string, buf []byte, p eos.ThermalParams) (*components.Page, error) {
	obs, err := eos.LoadThermal(buf)
	if err != nil {
		return nil, err
	}
	res, err := eos.ThermalDetect(obs, p)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	labels := make([]string, 0)
	scores := make([]opts.BarData, 0)
	for band := range res.Bands {
		for _, d := range res.Bands[band] {
			if err := store.InsertPixelDetection(observationID, "thermal", d.Row, d.Col, d.Score, now); err != nil {
				return nil, fmt.Errorf("telemetry: %w", err)
			}
			labels = append(labels, fmt.Sprintf("b%d (%d,%d)", band, d.Row, d.Col))
			scores = append(scores, opts.BarData{Value: d.Score})
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Thermal top-K detections", Subtitle: observationID}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("score", scores,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)
	return page, nil
}

func runSpectral(store *telemetry.Store, observationID string, buf []byte, p eos.SpectralParams) (*components.Page, error) {
	obs, err := eos.LoadSpectral(buf)
	if err != nil {
		return nil, err
	}
	res, err := eos.SpectralDetect(obs, p)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	labels := make([]string, 0, len(res.Detections))
	scores := make([]opts.BarData, 0, len(res.Detections))
	for _, d := range res.Detections {
		if err := store.InsertPixelDetection(observationID, "spectral", d.Row, d.Col, d.Score, now); err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		labels = append(labels, fmt.Sprintf("(%d,%d)", d.Row, d.Col))
		scores = append(scores, opts.BarData{Value: d.Score})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Spectral RX top-K detections", Subtitle: observationID}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("score", scores,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)
	return page, nil
}

// runParticle replays every observation in the PIMS file through one
// streaming ParticleState and charts the resulting score history.
func runParticle(store *telemetry.Store, observationID string, buf []byte, p eos.ParticleParams) (*components.Page, error) {
	file, err := eos.LoadParticle(buf)
	if err != nil {
		return nil, err
	}
	state, err := eos.NewParticleState(p)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(file.Observations))
	scores := make([]opts.LineData, 0, len(file.Observations))
	for i, obs := range file.Observations {
		det, err := state.OnRecv(obs)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}

		event := "no-transition"
		if det.Event == eos.EventTransition {
			event = "transition"
		}
		if err := store.InsertParticleDetection(observationID, event, det.Score, int64(det.Timestamp)); err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		labels = append(labels, fmt.Sprintf("%d", det.Timestamp))
		scores = append(scores, opts.LineData{Value: det.Score})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Particle change-score history", Subtitle: observationID}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(labels).
		AddSeries("score", scores)

	page := components.NewPage()
	page.AddCharts(line)
	return page, nil
}
