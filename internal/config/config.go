package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Company struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Search struct {
		Query string `yaml:"query"`
	} `yaml:"search"`

	Polling struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"polling"`

	Sources struct {
		Internshala struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"internshala"`
		Wellfound struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"wellfound"`
		Glassdoor struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"glassdoor"`
		Careers struct {
			Enabled   bool      `yaml:"enabled"`
			Companies []Company `yaml:"companies"`
		} `yaml:"careers"`
		LinkedIn struct {
			Enabled  bool   `yaml:"enabled"`
			Username string `yaml:"username"`
		} `yaml:"linkedin"`
	} `yaml:"sources"`

	Email struct {
		Enabled     bool     `yaml:"enabled"`
		IMAPHost    string   `yaml:"imap_host"`
		IMAPPort    int      `yaml:"imap_port"`
		Username    string   `yaml:"username"`
		Mailbox     string   `yaml:"mailbox"`
		FromAny     []string `yaml:"search_from_any"`
		MaxMessages int      `yaml:"max_messages"`
	} `yaml:"email"`

	Notify struct {
		Enabled  bool   `yaml:"enabled"`
		SMTPHost string `yaml:"smtp_host"`
		SMTPPort int    `yaml:"smtp_port"`
		From     string `yaml:"from"`
		To       string `yaml:"to"`
	} `yaml:"notify"`

	Enrich struct {
		Provider    string `yaml:"provider"` // keyword | gemini
		Model       string `yaml:"model"`
		MaxLLMCalls int    `yaml:"max_llm_calls"`
	} `yaml:"enrich"`

	Store struct {
		Backend string `yaml:"backend"` // sqlite | workbook
		Path    string `yaml:"path"`
	} `yaml:"store"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
