package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"housemem/housing"
	"housemem/internal/lister"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML settings file")
	dumpDir := flag.String("dump", "", "Read an offline dump directory instead of a live process")
	pid := flag.Int("pid", 0, "Process id of the client (default: look up the configured module)")
	captureDir := flag.String("capture", "", "Write the decoded memory to this dump directory")
	cataloguePath := flag.String("catalogue", "", "Path to the SQLite catalogue")
	sortType := flag.String("sort", "", "Sort objects by 'distance' or 'name'")
	origin := flag.String("origin", "0,0,0", "Origin for object distances as x,y,z")
	renderDistance := flag.Float64("render_distance", -1, "Only list objects within this distance, 0 for all")
	logLevel := flag.String("log_level", "", "Minimum log level")

	flag.Parse()

	o, err := parseOrigin(*origin)
	if err != nil {
		fmt.Printf("Housing Dump : Error: bad -origin value: %v\n", err)
		os.Exit(1)
	}

	cfg := lister.Config{
		ConfigPath:   *configPath,
		DumpDir:      *dumpDir,
		PID:          *pid,
		CaptureDir:   *captureDir,
		Origin:       o,
		Catalogue:    *cataloguePath,
		SortType:     *sortType,
		LogLevel:     *logLevel,
		OutputWriter: os.Stdout,
		LogWriter:    os.Stderr,
	}
	if *sortType != "" {
		sorted := true
		cfg.SortObjects = &sorted
	}
	if *renderDistance >= 0 {
		d := float32(*renderDistance)
		cfg.RenderDistance = &d
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := lister.Run(ctx, cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func parseOrigin(s string) (housing.Vec3, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return housing.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]float32
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return housing.Vec3{}, err
		}
		v[i] = float32(x)
	}
	return housing.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}
