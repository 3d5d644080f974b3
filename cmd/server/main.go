package main

import (
	"log"
	"net/http"

	"github.com/amirrezam75/terrahunt/gameserver"
	"github.com/amirrezam75/terrahunt/pkg/logx"
)

func main() {
	config, err := gameserver.LoadConfig()
	if err != nil {
		log.Fatalf(`level=error msg="%s" desc="%s"`, err.Error(), "could not load configuration")
	}

	server := gameserver.NewGameServer(config)

	logx.Logger.Infof("game server listening on %s", config.Addr)

	if err := http.ListenAndServe(config.Addr, server.GetRouter()); err != nil {
		log.Fatalf(`level=error msg="%s" desc="%s"`, err.Error(), "server stopped")
	}
}
