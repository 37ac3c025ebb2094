package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/makerhub/project-editor-backend/api"
	"github.com/makerhub/project-editor-backend/config"
	"github.com/makerhub/project-editor-backend/platform"
)

func main() {
	fmt.Println("Initializing editor gateway...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	if level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	platformBaseURL := config.GetString(c, "PLATFORM_API_BASE_URL", "")
	if platformBaseURL == "" {
		fmt.Println("PLATFORM_API_BASE_URL is required. Exiting...")
		os.Exit(1)
	}
	platformClient := platform.NewClient(platformBaseURL)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(platformClient)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
