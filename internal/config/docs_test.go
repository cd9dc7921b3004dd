package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envVarPattern matches backticked environment variable names in the
// deployment guide, including assignment forms like `NAME=value`.
var envVarPattern = regexp.MustCompile("`([A-Z][A-Z0-9_]+)[=`]")

// historicalEnvVars are documented only as replaced names from earlier
// deployments and are intentionally not consumed.
var historicalEnvVars = map[string]bool{
	"FLASK_ENV":   true,
	"FLASK_DEBUG": true,
}

// configGroups are the top-level config keys FAQ_-prefixed variables
// map onto.
var configGroups = []string{"server", "database", "auth", "ai", "session", "task"}

// TestDeploymentGuideEnvVarsAreConsumed checks that every environment
// variable named in docs/RAILWAY_DEPLOYMENT.md is actually read by this
// package, so the guide cannot drift from the code.
func TestDeploymentGuideEnvVarsAreConsumed(t *testing.T) {
	t.Parallel()

	guide := readFileFromRepoRoot(t, filepath.Join("docs", "RAILWAY_DEPLOYMENT.md"))

	src, err := os.ReadFile("load.go")
	require.NoError(t, err)
	loaderSource := string(src)

	matches := envVarPattern.FindAllStringSubmatch(guide, -1)
	require.NotEmpty(t, matches, "no environment variables found in the deployment guide")

	seen := map[string]bool{}
	for _, match := range matches {
		name := match[1]
		if strings.HasSuffix(name, "_") {
			// A prefix mention like `FAQ_`, not a variable name.
			continue
		}
		if seen[name] || historicalEnvVars[name] {
			seen[name] = true
			continue
		}
		seen[name] = true

		if key, ok := viperKeyForPrefixedName(name); ok {
			assert.Contains(t, loaderSource, strconv.Quote(key),
				"documented variable %s maps to config key %q, which the loader never sets", name, key)
			continue
		}

		assert.Contains(t, loaderSource, strconv.Quote(name),
			"documented variable %s is not read by the configuration loader", name)
	}
}

// TestDeploymentGuideDocumentsPlatformEnvVars is the reverse check: the
// platform-provided names the loader binds must all appear in the guide.
func TestDeploymentGuideDocumentsPlatformEnvVars(t *testing.T) {
	t.Parallel()

	guide := readFileFromRepoRoot(t, filepath.Join("docs", "RAILWAY_DEPLOYMENT.md"))

	platformVars := []string{
		"PORT", "DATABASE_URL", "SECRET_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_SSLMODE",
		"RAILWAY_DEPLOYMENT", "RAILWAY_APP_SERVICE",
		"DB_POOL_SIZE", "DB_MAX_OVERFLOW", "DB_POOL_TIMEOUT",
		"AI_SIMILARITY_THRESHOLD", "AI_MAX_TOKENS", "AI_TEMPERATURE",
	}

	for _, name := range platformVars {
		assert.Contains(t, guide, "`"+name+"`",
			"loader consumes %s but the deployment guide does not document it", name)
	}
}

// viperKeyForPrefixedName converts a FAQ_-prefixed environment variable
// name to the viper key it maps onto, e.g. FAQ_SERVER_LOG_LEVEL to
// "server.log_level". Returns false for unprefixed names.
func viperKeyForPrefixedName(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, "FAQ_")
	if !ok {
		return "", false
	}

	lower := strings.ToLower(rest)
	for _, group := range configGroups {
		if suffix, ok := strings.CutPrefix(lower, group+"_"); ok {
			return group + "." + suffix, true
		}
	}
	return lower, true
}

// readFileFromRepoRoot reads a file relative to the module root by
// walking up from the package directory until go.mod is found.
func readFileFromRepoRoot(t *testing.T, relPath string) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "go.mod not found walking up from the package directory")
		dir = parent
	}

	content, err := os.ReadFile(filepath.Join(dir, relPath))
	require.NoError(t, err)
	return string(content)
}
