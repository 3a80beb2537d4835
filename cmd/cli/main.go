package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/timevault/internal/client/cli"
	"github.com/dmitrijs2005/timevault/internal/client/config"
)

func main() {
	app, err := cli.NewApp(config.LoadConfig())
	if err != nil {
		log.Fatalf("timevault: %v", err)
	}
	app.Run(context.Background())
}
