package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/benmeehan/freebox-agent/internal/exporter"
	"github.com/benmeehan/freebox-agent/internal/service_registry"
	"github.com/benmeehan/freebox-agent/internal/utils"
	"github.com/benmeehan/freebox-agent/pkg/encryption"
	"github.com/benmeehan/freebox-agent/pkg/file"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
	"github.com/benmeehan/freebox-agent/pkg/identity"
	"github.com/benmeehan/freebox-agent/pkg/mqtt"
)

func main() {
	configPath := pflag.StringP("config", "c", "configs/config.yaml", "path to the configuration file")
	pflag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	fileClient := file.NewFileService()

	// Load configuration from file
	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	level, ok := utils.ParseLogLevel(config.Logging.Level)
	if !ok {
		logger.Warn().Str("level", config.Logging.Level).Msg("Unknown log level, using info")
	}
	logger = logger.Level(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Token file, encrypted at rest when a key is configured
	var enc encryption.EncryptionManagerInterface
	if config.Identity.TokenKeyFile != "" {
		manager := encryption.NewEncryptionManager(fileClient)
		if err := manager.Initialize(config.Identity.TokenKeyFile); err != nil {
			logger.Fatal().Err(err).Msg("Failed to load token encryption key")
		}
		enc = manager
	}
	tokenStore := identity.NewTokenStore(config.Identity.TokenFile, fileClient, enc)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	clientMetrics := exporter.NewClientMetrics(reg)

	client := freebox.New(
		freebox.WithAppDescriptor(identity.AppDescriptor{
			AppID:      config.App.AppID,
			AppName:    config.App.AppName,
			AppVersion: config.App.AppVersion,
			DeviceName: config.App.DeviceName,
		}),
		freebox.WithTokenStore(tokenStore),
		freebox.WithAPIVersion(config.Freebox.APIVersion),
		freebox.WithTimeout(config.Freebox.Timeout),
		freebox.WithPollInterval(config.Freebox.PollInterval),
		freebox.WithCACertificate(config.Freebox.CACertificate),
		freebox.WithInsecureSkipVerify(config.Freebox.InsecureSkipVerify),
		freebox.WithFileOperations(fileClient),
		freebox.WithObserver(clientMetrics),
		freebox.WithLogger(logger),
	)

	if err := client.Open(ctx, config.Freebox.Host, config.Freebox.Port); err != nil {
		logger.Fatal().Err(err).Str("host", config.Freebox.Host).Msg("Failed to open Freebox session")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(closeCtx); err != nil {
			logger.Warn().Err(err).Msg("Failed to close Freebox session")
		}
	}()

	reg.MustRegister(exporter.NewCollector(client.Connection, client.System, config.Freebox.Timeout, logger))

	// Initialize the shared MQTT connection when a broker is configured
	var mqttClient mqtt.MQTTClient
	if config.MQTT.Broker != "" {
		// Generate a unique MQTT Client ID by appending a UUID
		clientID := utils.UniqueClientID(config.MQTT.ClientID)
		logger.Info().Str("client_id", clientID).Msg("Using MQTT Client ID")

		mqttService := mqtt.NewMqttService(fileClient)
		err := mqttService.Initialize(mqtt.Options{
			Broker:             config.MQTT.Broker,
			ClientID:           clientID,
			CACertificate:      config.MQTT.CACertificate,
			Username:           config.MQTT.Username,
			Password:           config.MQTT.Password,
			InsecureSkipVerify: config.MQTT.InsecureSkipVerify,
			ConnectTimeout:     30 * time.Second,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize MQTT connection")
		}
		defer mqttService.Disconnect(250)
		mqttClient = mqttService
	}

	serviceRegistry := service_registry.NewServiceRegistry(mqttClient, reg, logger)
	if err := serviceRegistry.RegisterServices(config, client); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register services")
	}
	if err := serviceRegistry.StartServices(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start services")
	}
	logger.Info().Strs("services", serviceRegistry.Services()).Msg("All services started successfully")

	<-ctx.Done()

	logger.Info().Msg("Shutting down gracefully...")
	if err := serviceRegistry.StopServices(); err != nil {
		logger.Error().Err(err).Msg("Some services failed to stop")
	}
}
