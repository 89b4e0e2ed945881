package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/crispan/mealprep/config"
	"github.com/crispan/mealprep/internal/adminapi"
	"github.com/crispan/mealprep/internal/app"
	"github.com/crispan/mealprep/internal/webserver"
	"github.com/crispan/mealprep/internal/webui"
	"go.uber.org/zap"
)

var (
	BuildVersion = "develop"
	BuildTime    = "unknown"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all database tables")
)

func printHelp() {
	if *h {
		ustr := fmt.Sprintf("mealprep version: %s, Usage: mealprep -h\nOptions:", BuildVersion)
		_, _ = fmt.Fprintln(os.Stderr, ustr)
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("version: %s, built: %s\n", BuildVersion, BuildTime)
		os.Exit(0)
	}
	printHelp()

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		zap.L().Fatal("application init failed", zap.Error(err))
	}
	defer application.Release()

	if *initdb {
		if err := application.InitDb(); err != nil {
			zap.L().Fatal("database init failed", zap.Error(err))
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	webserver.Init(application)
	adminapi.Init()
	webui.Init()

	if err := webserver.Listen(ctx); err != nil {
		zap.L().Error("web server stopped", zap.Error(err))
	}
}
