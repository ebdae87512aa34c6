package main

import (
	"context"
	"log"
	"os"

	"github.com/clipflow-app/clipflow/internal/buildinfo"
	"github.com/clipflow-app/clipflow/internal/client/cli"
	"github.com/clipflow-app/clipflow/internal/client/config"
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
