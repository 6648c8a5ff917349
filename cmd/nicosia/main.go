package main

import (
	"flag"
	"log"

	"github.com/Artiqlate/nicosia"
	"github.com/Artiqlate/nicosia/config"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, cfgErr := config.Load(*configPath)
	if cfgErr != nil {
		log.Fatalf("Config error: %v", cfgErr)
	}

	serv, servErr := nicosia.NewServerModule(cfg)
	if servErr != nil {
		log.Fatalf("Server error: %v", servErr)
	}
	serv.Run()
}
