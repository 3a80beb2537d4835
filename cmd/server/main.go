package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/timevault/internal/server"
	"github.com/dmitrijs2005/timevault/internal/server/config"
)

func main() {
	app, err := server.NewApp(context.Background(), config.LoadConfig())
	if err != nil {
		log.Printf("timevault server: %v", err)
		os.Exit(1)
	}
	app.Run(context.Background())
}
