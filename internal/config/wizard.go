package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to taxocli! Let's configure the client.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Which deployment to talk to.
	originPrompt := promptui.Select{
		Label: "Select the analysis service to use",
		Items: []string{"local (" + LocalAPIURL + ")", "production (" + ProductionAPIURL + ")", "custom"},
	}
	idx, _, err := originPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("origin selection: %w", err)
	}

	switch idx {
	case 0:
		cfg.APIURL = LocalAPIURL
	case 1:
		cfg.APIURL = ProductionAPIURL
	default:
		urlPrompt := promptui.Prompt{
			Label:   "Service URL",
			Default: LocalAPIURL,
		}
		apiURL, err := urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("service URL: %w", err)
		}
		cfg.APIURL = apiURL
	}

	// 2. Polling interval.
	intervalPrompt := promptui.Prompt{
		Label:   "Polling interval in seconds",
		Default: strconv.Itoa(cfg.PollIntervalSeconds),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}
	intervalStr, err := intervalPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("polling interval: %w", err)
	}
	cfg.PollIntervalSeconds, _ = strconv.Atoi(intervalStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration written to %s\n", path)
	return cfg, nil
}
