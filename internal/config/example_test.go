package config_test

import (
	"fmt"
	"time"

	"github.com/workshot/workshot/internal/config"
)

func ExampleDefault() {
	cfg := config.Default()

	fmt.Println(cfg.GetPollIntervalSeconds())
	fmt.Println(cfg.GetIdleThresholdSeconds())
	fmt.Println(cfg.Web.Port)
	// Output:
	// 1
	// 45
	// 8787
}

func ExampleConfig_SetPollInterval() {
	cfg := config.Default()

	if err := cfg.SetPollInterval(5 * time.Second); err != nil {
		fmt.Println("error:", err)
	}
	fmt.Println(cfg.GetPollIntervalSeconds())

	if err := cfg.SetPollInterval(500 * time.Millisecond); err != nil {
		fmt.Println("rejected")
	}
	// Output:
	// 5
	// rejected
}
