package main

import "github.com/urfave/cli/v3"

var (
	modelPath  string
	vocabPath  string
	modelDir   string
	contextLen int64
	logLevel   string
	logFormat  string
	debug      bool
)

func commonModelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "path to the .safetensors weights (V, W1, b1, W2, b2)",
			Destination: &modelPath,
		},
		&cli.StringFlag{
			Name:        "vocab",
			Aliases:     []string{"chars"},
			Usage:       "path to the vocabulary file, one character per line",
			Destination: &vocabPath,
		},
		&cli.StringFlag{
			Name:        "model-dir",
			Aliases:     []string{"dir"},
			Usage:       "directory holding " + defaultWeightsFile + " and " + defaultVocabFile,
			Destination: &modelDir,
		},
		&cli.Int64Flag{
			Name:        "context-len",
			Aliases:     []string{"ctx"},
			Usage:       "number of previous characters the model conditions on",
			Value:       3,
			Destination: &contextLen,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (auto, pretty, json, text)",
			Value:       "auto",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
