package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinmichaelchen/repo-lens/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want models.Tier
	}{
		// README variants
		{"README.md", models.TierREADME},
		{"readme.rst", models.TierREADME},
		{"Readme", models.TierREADME},
		{"docs/README.md", models.TierREADME},

		// manifests
		{"pyproject.toml", models.TierManifest},
		{"package.json", models.TierManifest},
		{"go.mod", models.TierManifest},
		{"Cargo.toml", models.TierManifest},
		{"requirements.txt", models.TierManifest},
		{"requirements-dev.txt", models.TierManifest},
		{"setup.py", models.TierManifest},
		{"pom.xml", models.TierManifest},

		// build / ops
		{"Dockerfile", models.TierBuildOps},
		{"Dockerfile.prod", models.TierBuildOps},
		{"docker-compose.yml", models.TierBuildOps},
		{"docker-compose.override.yaml", models.TierBuildOps},
		{"Makefile", models.TierBuildOps},

		// CI / config
		{".github/workflows/ci.yml", models.TierCIConfig},
		{"config.yaml", models.TierCIConfig},
		{"settings.toml", models.TierCIConfig},
		{".env.example", models.TierCIConfig},

		// source
		{"main.py", models.TierSource},
		{"src/index.ts", models.TierSource},
		{"cmd/app/main.go", models.TierSource},
		{"lib/core.rs", models.TierSource},

		// excluded: vendored dirs
		{"node_modules/react/index.js", models.TierExcluded},
		{"vendor/pkg/mod.go", models.TierExcluded},
		{"a/b/node_modules/c/d.py", models.TierExcluded},
		{".git/config", models.TierExcluded},
		{"dist/bundle.js", models.TierExcluded},
		{"env/lib/site.py", models.TierExcluded},
		{"public/build/app.js", models.TierExcluded},
		{"app/public/build/main.js", models.TierExcluded},
		{"spec/fixtures/user_spec.rb", models.TierExcluded},
		{"fixtures/data/seed.py", models.TierExcluded},

		// excluded: lockfiles and generated
		{"package-lock.json", models.TierExcluded},
		{"go.sum", models.TierExcluded},
		{"poetry.lock", models.TierExcluded},
		{"api.pb.go", models.TierExcluded},
		{"app.min.js", models.TierExcluded},
		{"api/zz_generated.deepcopy.go", models.TierExcluded},
		{"internal/generated/client.go", models.TierExcluded},
		{"app/migrations/0001_initial.py", models.TierExcluded},
		{"migrations/0002_auto.py", models.TierExcluded},
		{"app/migrations/helpers.py", models.TierSource},

		// excluded: binary
		{"logo.png", models.TierExcluded},
		{"model.pkl", models.TierExcluded},
		{"docs/manual.pdf", models.TierExcluded},

		// excluded: unrecognized
		{"LICENSE", models.TierExcluded},
		{"notes.txt", models.TierExcluded},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.path))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	paths := []string{"README.md", "main.py", "node_modules/x.js", "go.mod", "weird.bin"}
	for _, p := range paths {
		first := Classify(p)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, Classify(p), "classify must be deterministic for %s", p)
		}
	}
}

func TestExcludedVersusClassify(t *testing.T) {
	// LICENSE is not selectable (no tier) but must stay visible in the
	// tree rendering, so the exclusion-only check accepts it.
	assert.False(t, Excluded("LICENSE"))
	assert.Equal(t, models.TierExcluded, Classify("LICENSE"))

	assert.True(t, Excluded("node_modules/react/index.js"))
	assert.True(t, Excluded("a.png"))
	assert.True(t, Excluded("yarn.lock"))

	// paired directory names exclude only what lives beneath them; a
	// file that happens to end the pair is still a file
	assert.True(t, Excluded("spec/fixtures/users.yml"))
	assert.False(t, Excluded("spec/fixtures"))
	assert.False(t, Excluded("fixtures/readme.md"))
}

func TestLessOrdering(t *testing.T) {
	// shallower first, then lexicographic
	assert.True(t, Less("main.py", "src/app.py"))
	assert.True(t, Less("app.py", "main.py"))
	assert.False(t, Less("src/app.py", "main.py"))
	assert.True(t, Less("src/a.py", "src/b.py"))
}

func TestSortPathsStable(t *testing.T) {
	paths := []string{"src/z.py", "a.py", "src/a.py", "b.py"}
	SortPaths(paths)
	require.Equal(t, []string{"a.py", "b.py", "src/a.py", "src/z.py"}, paths)
}
