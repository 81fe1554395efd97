package main

import (
	"fmt"
	"os"

	"github.com/PhiFans/phiweb-sub000/internal/config"
	"github.com/PhiFans/phiweb-sub000/internal/logger"
	"github.com/PhiFans/phiweb-sub000/internal/theme"
)

func main() {
	err := run(os.Args[1:])
	if nil != err {
		logger.Error("phichart failed", logger.ErrorField(err))
		fmt.Fprintln(os.Stderr, err)
	}
	logger.Sync()
	if nil != err {
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.New()
	command, err := cfg.Parse(args)
	if nil != err {
		return err
	}
	logger.InitLogger(cfg.Logger(command))

	p := &Program{
		Config: cfg,
		Judge:  cfg.Judge(),
		Theme:  &theme.DefaultTheme{},
		Out:    os.Stdout,
	}
	if err := p.Load(); nil != err {
		return err
	}
	switch command {
	case config.CommandInspect:
		return p.Inspect()
	case config.CommandAutoplay:
		return p.Autoplay()
	case config.CommandPlay:
		return p.Play()
	case config.CommandHistory:
		return p.History()
	}
	return nil
}
