package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/JackNytely/TMNext-Predictor/internal/predictor"
)

var (
	configPath string
	replayPath string
)

func init() {
	flag.StringVar(&configPath, "c", "./config.yml", "config path")
	flag.StringVar(&replayPath, "replay", "", "telemetry replay file (one JSON frame per line, - for stdin)")
	flag.Parse()
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.DebugLevel)

	config, err := readConfig()

	if err != nil {
		logger.WithError(err).Fatalf("Could not read config at %s", configPath)
	}

	if config.SplitsFile == "" {
		config.SplitsFile = "./splits.db"
	}

	local, err := predictor.OpenBoltSplitStore(config.SplitsFile)

	if err != nil {
		logger.WithError(err).Fatal("Could not open local split database")
	}

	defer local.Close()

	var remote predictor.RemoteClient

	if config.RemoteSplitsEnabled && config.RemoteURL != "" {
		client := predictor.NewHTTPSplitClient(config.RemoteURL, logger)

		if token := os.Getenv("TMNEXT_SPLITS_TOKEN"); token != "" {
			client.SetToken(token)
		} else {
			logger.Warnf("Remote splits enabled but TMNEXT_SPLITS_TOKEN is not set; remote requests will fail until a token arrives")
		}

		remote = client
	}

	store := predictor.NewSplitStore(local, remote, predictor.FetchType(config.RemoteFetchType), logger)

	engine, err := predictor.NewEngine(*config, store, logger, nil)

	if err != nil {
		logger.WithError(err).Fatal("Could not initialise prediction engine")
	}

	if config.HTTPPort > 0 {
		feed := predictor.NewOverlayFeed(config.HTTPPort, engine, logger)

		if err := feed.Listen(); err != nil {
			logger.WithError(err).Fatal("Could not start overlay feed")
		}

		defer feed.Close()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		for range c {
			logger.Infof("Interrupted. Exiting")
			os.Exit(0)
		}
	}()

	if replayPath == "" {
		logger.Fatal("No telemetry source given. Pass -replay with a frame file")
	}

	if err := replay(engine, logger); err != nil {
		logger.WithError(err).Fatal("Replay failed")
	}

	logger.Infof("Replay complete. Predicted: %s, delta: %s", engine.PredictedTimeString(), engine.DeltaTimeString())
}

func replay(engine *predictor.Engine, logger predictor.Logger) error {
	input := os.Stdin

	if replayPath != "-" {
		f, err := os.Open(replayPath)

		if err != nil {
			return err
		}

		defer f.Close()

		input = f
	}

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	line := 0

	for scanner.Scan() {
		line++

		if len(scanner.Bytes()) == 0 {
			continue
		}

		var frame predictor.TelemetryFrame

		if err := json.Unmarshal(scanner.Bytes(), &frame); err != nil {
			logger.WithError(err).Errorf("Skipping malformed frame on line %d", line)
			continue
		}

		engine.Tick(frame)
	}

	return scanner.Err()
}

func readConfig() (*predictor.Config, error) {
	data, err := ioutil.ReadFile(configPath)

	if err != nil {
		return nil, err
	}

	var config predictor.Config

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
