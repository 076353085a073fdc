package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	envNamegenModelDir = "NAMEGEN_MODEL_DIR"

	defaultWeightsFile = "model.safetensors"
	defaultVocabFile   = "possible_chars.txt"
)

// resolveModelPaths picks the weights and vocabulary files. Explicit paths
// win; otherwise both are looked up in dir, falling back to
// NAMEGEN_MODEL_DIR.
func resolveModelPaths(weightsFlag, vocabFlag, dir string) (string, string, error) {
	weights := strings.TrimSpace(weightsFlag)
	chars := strings.TrimSpace(vocabFlag)
	if weights != "" && chars != "" {
		return filepath.Clean(weights), filepath.Clean(chars), nil
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(envNamegenModelDir))
	}
	if dir == "" {
		return "", "", fmt.Errorf("--model and --vocab are required unless --model-dir or %s is set", envNamegenModelDir)
	}
	st, err := os.Stat(dir)
	if err != nil {
		return "", "", err
	}
	if !st.IsDir() {
		return "", "", fmt.Errorf("model dir is not a directory: %s", dir)
	}

	if weights == "" {
		weights = filepath.Join(dir, defaultWeightsFile)
	}
	if chars == "" {
		chars = filepath.Join(dir, defaultVocabFile)
	}
	return filepath.Clean(weights), filepath.Clean(chars), nil
}

// parseCount reads the batch size from the first positional argument.
func parseCount(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: want a non-negative integer", arg)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid count %d: want a non-negative integer", n)
	}
	return n, nil
}
