package main

import (
	"os"

	"github.com/inovasi-informatika/spp-admin/internal/cli"
	"github.com/inovasi-informatika/spp-admin/internal/config"
)

func main() {
	cfg := config.Load()
	os.Exit(cli.Execute(cli.NewRootCommand(cfg.APIBaseURL)))
}
