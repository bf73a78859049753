package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/dragonmosaic/internal/config"
	"github.com/tauraamui/dragonmosaic/pkg/configdef"
	"github.com/tauraamui/dragonmosaic/pkg/log"
	"github.com/tauraamui/dragonmosaic/pkg/mosaic"
	"github.com/tauraamui/dragonmosaic/pkg/videobackend"
)

func setup() {
	log.Info("Setting up dragonmosaic config...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			log.Fatal(err.Error())
		}
		log.Error(err.Error())
	}

	log.Info("Setup successful...")
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "setup":
			setup()
			return
		default:
			fmt.Println("Usage: dragonmosaic [setup]")
			return
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting dragonmosaic...")

	server := mosaic.NewServer(
		config.DefaultResolver(),
		videobackend.Resolve(os.Getenv("DRAGON_VIDEO_BACKEND")),
	)
	if err := server.LoadConfiguration(); err != nil {
		log.Fatal(err.Error())
	}

	ctx, cancelStartup := context.WithCancel(context.Background())
	go startupServer(ctx, server)

	killSignal := <-interrupt
	fmt.Print("\r")
	log.Error("Received signal: %s", killSignal)

	cancelStartup()
	log.Info("Shutting down server...")
	<-server.Shutdown()

	log.Info("Shutdown successful... BYE! 👋")
}

func startupServer(ctx context.Context, server mosaic.Server) {
	for _, err := range server.ConnectWithCancel(ctx) {
		log.Error(err.Error())
	}
	server.Run()
}

func init() {
	logging.CallbackLabelLevel = 5
	logging.ColorLogLevelLabelOnly = true
	loggingLevel := os.Getenv("DRAGON_LOGGING_LEVEL")

	switch strings.ToLower(loggingLevel) {
	case "info":
		logging.CurrentLoggingLevel = logging.InfoLevel
	case "warn":
		logging.CurrentLoggingLevel = logging.WarnLevel
	case "debug":
		logging.CurrentLoggingLevel = logging.DebugLevel
		logging.CallbackLabel = true
	default:
		logging.CurrentLoggingLevel = logging.WarnLevel
	}
}
