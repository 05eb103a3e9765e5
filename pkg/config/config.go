package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		BaseURL       string  `yaml:"base_url"`
		Model         string  `yaml:"model"`
		FallbackModel string  `yaml:"fallback_model"`
		MaxTokens     int     `yaml:"max_tokens"`
		Temperature   float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Embedding struct {
		Model     string `yaml:"model"`
		VectorDim int    `yaml:"vector_dim"`
	} `yaml:"embedding"`

	Database struct {
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"database"`

	Chunker struct {
		MaxChunkSize int `yaml:"max_chunk_size"`
		Overlap      int `yaml:"overlap"`
	} `yaml:"chunker"`

	Loader struct {
		AllowedExtensions []string `yaml:"allowed_extensions"`
		RateLimit         float64  `yaml:"rate_limit"`
	} `yaml:"loader"`

	Session struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"session"`

	UI struct {
		Streaming bool `yaml:"streaming"`
	} `yaml:"ui"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/chatbot/config.yaml"),
			"/etc/chatbot/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "llama3.2"
	}
	if config.LLM.FallbackModel == "" {
		config.LLM.FallbackModel = "mistral"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 1024
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Embedding.Model == "" {
		config.Embedding.Model = "all-minilm"
	}
	if config.Embedding.VectorDim == 0 {
		config.Embedding.VectorDim = 384
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "chatbot_records"
	}
	if config.Database.BatchSize == 0 {
		config.Database.BatchSize = 100
	}

	if config.Chunker.MaxChunkSize == 0 {
		config.Chunker.MaxChunkSize = 1000
	}
	if config.Chunker.Overlap == 0 {
		config.Chunker.Overlap = 100
	}

	if len(config.Loader.AllowedExtensions) == 0 {
		config.Loader.AllowedExtensions = []string{".txt", ".md", ".html"}
	}
	if config.Loader.RateLimit == 0 {
		config.Loader.RateLimit = 4.0
	}

	if config.Session.TTLMinutes == 0 {
		config.Session.TTLMinutes = 120
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if model := os.Getenv("CHATBOT_MODEL"); model != "" {
		config.LLM.Model = model
	}
}
