package config

import (
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad preset", func(c *Config) { c.Sensitivity = "turbo" }},
		{"zero threads", func(c *Config) { c.Threads = 0 }},
		{"negative mapQ", func(c *Config) { c.MinMapQ = -1 }},
		{"negative depth", func(c *Config) { c.MinDepth = -5 }},
		{"af above 1", func(c *Config) { c.MinAF = 1.5 }},
		{"breadth above 1", func(c *Config) { c.MinBreadth = 1.01 }},
		{"negative coverage", func(c *Config) { c.MinCoverage = -10 }},
		{"n percent above 100", func(c *Config) { c.MaxNPercent = 120 }},
		{"inverted size range", func(c *Config) { c.SizeMin = 18000; c.SizeMax = 15000 }},
		{"negative size", func(c *Config) { c.SizeMin = -1 }},
	}
	for _, test := range tests {
		c := Default()
		test.mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", test.name)
		}
	}
}

func TestValidateAcceptsBoundaries(t *testing.T) {
	c := Default()
	c.MinAF = 1
	c.MinBreadth = 0
	c.MaxNPercent = 100
	c.SizeMin = 16000
	c.SizeMax = 16000
	if err := c.Validate(); err != nil {
		t.Errorf("boundary values should validate: %v", err)
	}
}
