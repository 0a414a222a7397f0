package objectstore

import "testing"

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Endpoint:        "localhost:9000",
		AccessKey:       "key",
		SecretKey:       "secret",
		Region:          "us-east-1",
		BucketArtifacts: "sim-artifacts",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	cases := map[string]func(*Config){
		"missing endpoint": func(c *Config) { c.Endpoint = "" },
		"missing access":   func(c *Config) { c.AccessKey = "" },
		"missing secret":   func(c *Config) { c.SecretKey = "" },
		"missing bucket":   func(c *Config) { c.BucketArtifacts = "" },
		"scheme endpoint":  func(c *Config) { c.Endpoint = "http://localhost:9000" },
	}
	for name, mutate := range cases {
		cfg := valid
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
