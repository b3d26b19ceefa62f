package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"sync"
	"time"

	"github.com/k0kubun/go-ansi"
	"github.com/lintang-b-s/navigatorx-ch/pkg/config"
	"github.com/lintang-b-s/navigatorx-ch/pkg/contracted"
	"github.com/lintang-b-s/navigatorx-ch/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/kv"
	"github.com/lintang-b-s/navigatorx-ch/pkg/logger"
	"github.com/lintang-b-s/navigatorx-ch/pkg/network"
	"github.com/lintang-b-s/navigatorx-ch/pkg/optimizer"
	"github.com/lintang-b-s/navigatorx-ch/pkg/osmparser"
	"github.com/lintang-b-s/navigatorx-ch/pkg/restriction"
	"golang.org/x/exp/slog"
)

var (
	configFile = flag.String("config", "config.yaml", "file config yaml")
	mapFile    = flag.String("f", "", "openstreeetmap file buat road network graphnya (override build.osm)")
	outputDir  = flag.String("output", "", "direktori output file contracted graph (override build.output)")
	kvDir      = flag.String("kv-dir", "", "direktori badger kv (override engine.kv-dir)")
	edgeBased  = flag.Bool("edge-based", false, "contraction di dual graph, turn restriction ikut dihormati")
	logLevel   = flag.String("log-level", "info", "debug | info | warn | error")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatal(err)
	}
	logger.Install(os.Stdout, level)

	if *cpuprofile != "" {
		// https://go.dev/blog/pprof
		// ./bin/navigatorx-preprocessing -cpuprofile=navigatorxcpu.prof -memprofile=navigatorxmem.mprof
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cfg, err := config.ReadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *mapFile != "" {
		cfg.Build.OSMFile = *mapFile
	}
	if *outputDir != "" {
		cfg.Build.Output = *outputDir
	}
	if *kvDir != "" {
		cfg.Engine.KVDir = *kvDir
	}
	if *edgeBased {
		cfg.Build.EdgeBased = true
	}
	if cfg.Build.OSMFile == "" {
		log.Fatal(config.ErrNoOSMFile)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("preprocessing failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\n Contraction Hieararchies + Bidirectional Dijkstra Ready!!\n")
}

func run(ctx context.Context, cfg config.Config) error {
	start := time.Now()
	slog.Info("reading osm file", "file", cfg.Build.OSMFile)
	osmParser := osmparser.NewOSMParser()
	osmParser.SetProgressWriter(ansi.NewAnsiStdout())
	net, err := osmParser.ParseFile(ctx, cfg.Build.OSMFile)
	if err != nil {
		return err
	}
	recordMemProfile(memprofile, "parsing_osm_data")

	restrictions := osmParser.Restrictions()
	extra, err := osmParser.MapRestrictions(cfg.Build.Restrictions)
	if err != nil {
		return fmt.Errorf("config restrictions: %w", err)
	}
	restrictions = append(restrictions, extra...)
	slog.Info("turn restrictions", "count", len(restrictions))
	if len(restrictions) > 0 && !cfg.Build.EdgeBased {
		slog.Warn("turn restrictions are ignored by node-based contraction, use -edge-based")
	}

	if cfg.Build.Optimize {
		opt := optimizer.NewNetworkOptimizer(net, nil, nil)
		for _, r := range restrictions {
			opt.Protect(r...)
		}
		if _, err := opt.Run(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cfg.Build.Output, 0o755); err != nil {
		return err
	}
	kvDB, err := kv.OpenKVDB(cfg.Engine.KVDir)
	if err != nil {
		return err
	}
	defer kvDB.Close()

	if err := kvDB.SaveNetwork(net); err != nil {
		return err
	}

	indexCtx, cancelIndex := context.WithCancel(ctx)
	defer cancelIndex()
	var (
		wg       sync.WaitGroup
		indexErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		indexErr = kvDB.BuildH3IndexedVertices(indexCtx, net.Coordinates())
	}()

	for _, p := range cfg.Profiles {
		if err := buildProfile(ctx, cfg, p, net, restrictions, kvDB); err != nil {
			cancelIndex()
			wg.Wait()
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
	}

	wg.Wait()
	if indexErr != nil {
		return fmt.Errorf("h3 index: %w", indexErr)
	}
	recordMemProfile(memprofile, "finish_contracting_graph")
	slog.Info("preprocessing done", "took", time.Since(start))
	return nil
}

func buildProfile(ctx context.Context, cfg config.Config, p config.ProfileConfig, net *network.RoadNetwork,
	restrictions [][]uint32, kvDB *kv.KVDB) error {
	g := net.Graph()
	cost := p.CostFunction(net.Profiles(), osmparser.DefaultCarSpeeds)

	labels, err := contractor.DetectIslands(g, []datastructure.CostFunction{cost})
	if err != nil {
		return err
	}
	sizes := contractor.IslandSizes(labels)
	largest := contractor.LargestIsland(labels)
	scc := contractor.StronglyConnectedComponents(g, cost)
	slog.Info("connectivity", "profile", p.Name, "islands", len(sizes),
		"largest_island", sizes[largest], "strongly_connected_components", len(scc.Components))

	cc := cfg.Build.Contraction.ContractionConfig()
	var db *contracted.ContractedDb
	if cfg.Build.EdgeBased {
		db, err = contractor.BuildContractedEdgeBased(ctx, g, cost, restriction.NewSet(restrictions), cc)
	} else {
		if cfg.Build.Contraction.Augmented {
			cc.TimeCost = p.TimeCost(net.Profiles(), osmparser.DefaultCarSpeeds)
		}
		db, err = contractor.BuildContracted(ctx, g, cost, cc)
	}
	if err != nil {
		return err
	}

	slog.Info("Saving Contracted Graph to a file...", "profile", p.Name)
	if err := db.Save(filepath.Join(cfg.Build.Output, p.Name+".ch"), cfg.Build.Compress); err != nil {
		return err
	}
	if err := kvDB.SaveContracted(p.Name, db); err != nil {
		return err
	}
	return kvDB.SaveIslands(p.Name, labels)
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		path := strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(path)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
