package main

import (
	"context"
	"log"
	"os"

	"github.com/gmanager/gmanager/internal/buildinfo"
	"github.com/gmanager/gmanager/internal/cli"
	"github.com/gmanager/gmanager/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
