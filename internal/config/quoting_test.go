package config

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

func TestGodotenvQuoting(t *testing.T) {
	content := `FLOWMINE_DATA_PATH='/tmp/path with "quoted" segment'`
	tmpfile, err := os.CreateTemp("", ".env.test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(tmpfile.Name())
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `/tmp/path with "quoted" segment`
	if env["FLOWMINE_DATA_PATH"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["FLOWMINE_DATA_PATH"])
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		fallback bool
		want     bool
	}{
		{"unset uses fallback", "", false, true, true},
		{"true", "true", true, false, true},
		{"numeric one", "1", true, false, true},
		{"false", "false", true, true, false},
		{"garbage uses fallback", "not-a-bool", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const key = "FLOWMINE_TEST_BOOL"
			os.Unsetenv(key)
			if tt.set {
				t.Setenv(key, tt.value)
			}
			if got := getEnvBool(key, tt.fallback); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	const key = "FLOWMINE_TEST_INT"

	os.Unsetenv(key)
	if got := getEnvInt(key, 500); got != 500 {
		t.Errorf("Expected fallback 500, got %d", got)
	}

	t.Setenv(key, "1200")
	if got := getEnvInt(key, 500); got != 1200 {
		t.Errorf("Expected 1200, got %d", got)
	}

	t.Setenv(key, "twelve")
	if got := getEnvInt(key, 500); got != 500 {
		t.Errorf("Expected fallback 500 for invalid value, got %d", got)
	}
}
