package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/respkv/respkv/internal/common"
	"github.com/respkv/respkv/internal/config"
	"github.com/respkv/respkv/internal/server"
)

func main() {
	app := cli.NewApp()
	app.Name = "kvserver"
	app.Usage = "in-memory key-value server speaking RESP2/RESP3"
	app.Version = server.Version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to a kvserver.conf file",
		},
		cli.StringFlag{
			Name:  "bind, b",
			Usage: "override the bind address",
		},
		cli.IntFlag{
			Name:  "port, p",
			Usage: "override the listen port",
		},
	}
	app.Action = runServer
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func runServer(ctx *cli.Context) error {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		loaded, err := config.ReadConf(path)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		cfg = loaded
	}
	if bind := ctx.String("bind"); bind != "" {
		cfg.Bind = bind
	}
	if port := ctx.Int("port"); port != 0 {
		cfg.Port = port
	}

	log := common.SetupLogging("server", common.LevelByName(cfg.LogLevel))
	if cfg.Filepath != "" {
		log.Infof("config loaded from %s", cfg.Filepath)
	}

	state := server.NewState(cfg)
	if err := server.ListenAndServe(state); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}
