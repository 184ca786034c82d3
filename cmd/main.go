package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/saeidalz13/battleship-engine/api"
	"github.com/saeidalz13/battleship-engine/db"
	"github.com/saeidalz13/battleship-engine/db/sqlc"
	"github.com/saeidalz13/battleship-engine/internal/config"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	var querier sqlc.Querier
	if cfg.AnalyticsEnabled() {
		querier = sqlc.New(db.MustConnectToDb(cfg.DatabaseUrl, cfg.MigrationDir))
	} else {
		log.Println("DATABASE_URL not set, analytics disabled")
	}

	sessionManager := mc.NewBattleshipSessionManager()
	go sessionManager.CleanupPeriodically(context.Background())

	rp := api.NewRequestProcessor(sessionManager, mb.NewBattleshipMatchManager(), querier)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	log.Printf("Listening to port %d\n", cfg.Port)
	log.Fatalln(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.Port), mux))
}
