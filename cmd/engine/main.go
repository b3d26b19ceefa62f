package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lintang-b-s/navigatorx-ch/docs"
	"github.com/lintang-b-s/navigatorx-ch/pkg/config"
	"github.com/lintang-b-s/navigatorx-ch/pkg/contractor"
	"github.com/lintang-b-s/navigatorx-ch/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-ch/pkg/kv"
	"github.com/lintang-b-s/navigatorx-ch/pkg/logger"
	"github.com/lintang-b-s/navigatorx-ch/pkg/network"
	"github.com/lintang-b-s/navigatorx-ch/pkg/osmparser"
	"github.com/lintang-b-s/navigatorx-ch/pkg/server/rest"
	"github.com/lintang-b-s/navigatorx-ch/pkg/server/rest/service"
	"github.com/lintang-b-s/navigatorx-ch/pkg/snap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/exp/slog"
)

var (
	configFile = flag.String("config", "config.yaml", "file config yaml")
	listenAddr = flag.String("listenaddr", "", "server listen address (override engine.address)")
	kvDir      = flag.String("kv-dir", "", "direktori badger kv hasil preprocessing (override engine.kv-dir)")
	profile    = flag.String("profile", "", "profile yang dilayani (override engine.profile)")
	logLevel   = flag.String("log-level", "info", "debug | info | warn | error")
)

var errNotPreprocessed = errors.New("kv has no data for this profile, run navigatorx-preprocessing first")

//	@title			navigatorx-ch API
//	@version		1.0
//	@description	openstreetmap routing engine. Contraction Hierarchies untuk preprocessing, Bidirectional Dijkstra untuk query shortest path

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatal(err)
	}
	logger.Install(os.Stdout, level)

	cfg, err := config.ReadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *listenAddr != "" {
		cfg.Engine.Address = *listenAddr
	}
	if *kvDir != "" {
		cfg.Engine.KVDir = *kvDir
	}
	if *profile != "" {
		cfg.Engine.Profile = *profile
	}

	kvDB, err := kv.OpenKVDB(cfg.Engine.KVDir)
	if err != nil {
		log.Fatal(err)
	}
	defer kvDB.Close()

	navigatorSvc, err := newNavigationService(cfg, kvDB)
	if err != nil {
		slog.Error("engine init failed", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.WrapHandler) // doc.json dari package docs

	rest.NavigatorRouter(r, navigatorSvc, m)

	fmt.Printf("\n Contraction Hieararchies + Bidirectional Dijkstra Ready!!")
	fmt.Printf("\nserver started at %s\n", cfg.Engine.Address)

	log.Fatal(http.ListenAndServe(cfg.Engine.Address, r))
}

// newNavigationService. load network, contracted graph & island profile dari kv.
func newNavigationService(cfg config.Config, kvDB *kv.KVDB) (*service.NavigationService, error) {
	p, ok := cfg.Profile(cfg.Engine.Profile)
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", cfg.Engine.Profile, config.ErrNoProfile)
	}

	net, ok, err := kvDB.LoadNetwork()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotPreprocessed
	}
	db, ok, err := kvDB.LoadContracted(p.Name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", p.Name, errNotPreprocessed)
	}
	slog.Info("contracted graph loaded", "profile", p.Name, "vertices", db.Graph().VertexCount(),
		"edge_based", db.HasEdgeBasedGraph(), "augmented", db.Augmented())

	var index snap.CandidateIndex = kvDB
	if cfg.Engine.SnapIndex == config.SnapIndexRtree {
		index = snap.NewRtreeIndex(net.Coordinates())
	}
	resolver := snap.NewResolver(index, net.Coordinates())
	resolver.MaxDistance = cfg.Engine.MaxSnapDistance

	labels, ok, err := kvDB.LoadIslands(p.Name)
	if err != nil {
		return nil, err
	}
	resolver.Filter = snapFilter(net, labels, ok)

	cost := p.CostFunction(net.Profiles(), osmparser.DefaultCarSpeeds)
	return service.NewNavigationService(db, net, resolver, cost, cfg.Engine.Workers), nil
}

// snapFilter. cuma vertex yang punya edge & ada di island terbesar yang boleh jadi hasil snap.
func snapFilter(net *network.RoadNetwork, labels []uint16, hasIslands bool) func(uint32) bool {
	g := net.Graph()
	var largest uint16
	if hasIslands {
		largest = contractor.LargestIsland(labels)
	}
	return func(v uint32) bool {
		if hasIslands && (int(v) >= len(labels) || labels[v] != largest) {
			return false
		}
		return hasEdge(g, v)
	}
}

func hasEdge(g *datastructure.Graph, v uint32) bool {
	e := g.GetEdgeEnumerator()
	return e.MoveTo(v) && e.MoveNext()
}
