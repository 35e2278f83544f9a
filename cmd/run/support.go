package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/zintix-labs/rcglab"
	"github.com/zintix-labs/rcglab/demo"
	"github.com/zintix-labs/rcglab/scenario"
	"github.com/zintix-labs/rcglab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	file      string
	size      int
	theta     float64
	alpha     float64
	rho       float64
	scale     float64
	seed      int64
	strategy  string
	quiet     bool
	pprofmode string
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.file, "f", "", "scenario yaml file (empty: run built-in demo set, unless -theta is given)")
	flag.IntVar(&cfg.size, "size", 10000, "number of beta values to draw")
	flag.Float64Var(&cfg.theta, "theta", 0, "methylated/unmethylated intensity ratio (single run mode)")
	flag.Float64Var(&cfg.alpha, "alpha", 2.0, "gamma shape parameter, must be > 1")
	flag.Float64Var(&cfg.rho, "rho", 0.45, "correlation between channel intensities, in [0,1]")
	flag.Float64Var(&cfg.scale, "scale", 1.0, "rate scale applied to both channels")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator (<1: crypto seed)")
	flag.StringVar(&cfg.strategy, "strategy", "", "sampling strategy: auto|rej|tdr|sru")
	flag.BoolVar(&cfg.quiet, "q", false, "suppress progress bar")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()
}

// 這裡解析並分支要執行的模擬：
// 有給 -theta 就跑單一情境，否則跑情境設定檔（-f 或內建示範集）。
func executeSimulator() {
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	if cfg.theta > 0 { // 單一情境
		cfg.valid()
		p.Printf("%s[SINGLE] [THETA:%v ALPHA:%v RHO:%v] [SIZE:%d]%s\n",
			green, cfg.theta, cfg.alpha, cfg.rho, cfg.size, reset)

		opt := rcglab.DefaultOptions()
		opt.Theta = cfg.theta
		opt.Alpha = cfg.alpha
		opt.Rho = cfg.rho
		opt.Scale = cfg.scale
		if cfg.seed > 0 {
			opt.Seed = &cfg.seed
		}
		st, err := rcglab.ParseStrategy(cfg.strategy)
		if err != nil {
			log.Fatal(err)
		}
		opt.Strategy = st

		batch, err := rcglab.Simulate(cfg.size, opt)
		if err != nil {
			log.Fatal(err)
		}
		stats.Describe("single", cfg.size, batch).StdOut()
		return
	}

	// 批次情境
	set, err := loadSet()
	if err != nil {
		log.Fatal(err)
	}
	sim, err := rcglab.NewSimulator(set, nil)
	if err != nil {
		log.Fatal(err)
	}
	p.Printf("%s[BATCH] [SCENARIOS:%d]%s\n", green, len(set.Scenarios), reset)
	reports, used, err := sim.Run(!cfg.quiet)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range reports {
		r.StdOut()
	}
	p.Printf("total used: %v\n", used)
}

func loadSet() (*scenario.Set, error) {
	if cfg.file == "" {
		return demo.NewSet()
	}
	dir, name := filepath.Split(cfg.file)
	if dir == "" {
		dir = "."
	}
	return scenario.Load(os.DirFS(dir), name)
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	if cfg.size < 1 {
		log.Fatal("value err : size must > 0")
	}

	// 樣本數太多 resize（CLI 單次輸出超過千萬沒有統計上的意義）
	if cfg.size > 10_000_000 {
		p.Printf("too much samples: %d resized to 10M\n", cfg.size)
		cfg.size = 10_000_000
	}

	if cfg.alpha <= 1 {
		log.Fatal("value err : alpha must > 1")
	}
	if cfg.rho < 0 || cfg.rho > 1 {
		log.Fatal("value err : rho must be in [0,1]")
	}
	if cfg.scale <= 0 {
		log.Fatal("value err : scale must > 0")
	}
}
