package app

import (
	"os"
	"strconv"

	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
)

// Config carries the process-level knobs. Provider credentials and model
// names stay with the Gemini client, which reads its own environment.
type Config struct {
	PolicyIndexPath  string
	EmbedDim         int
	EmbedConcurrency int
	RetrievalTopK    int
}

func LoadConfig(log *logger.Logger) Config {
	policyIndexPath := getEnv("POLICY_INDEX_PATH", "data/policy_index.gob", log)
	embedDim := getEnvAsInt("EMBED_DIM", 768, log)
	embedConcurrency := getEnvAsInt("CORPUS_EMBED_CONCURRENCY", 4, log)
	retrievalTopK := getEnvAsInt("RETRIEVAL_TOP_K", 3, log)
	return Config{
		PolicyIndexPath:  policyIndexPath,
		EmbedDim:         embedDim,
		EmbedConcurrency: embedConcurrency,
		RetrievalTopK:    retrievalTopK,
	}
}

func getEnv(key, defaultVal string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable found, using environment", "environment", val)
	}
	return val
}

func getEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	if log != nil {
		log = log.With("env_var", key)
	}
	valStr, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	i, err := strconv.Atoi(valStr)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as int, using default", "providedVal", valStr, "defaultVal", defaultVal, "error", err)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable found, using it", "value", i)
	}
	return i
}
