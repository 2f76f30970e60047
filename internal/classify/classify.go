// Package classify maps repository paths to selection tiers. Everything
// here is pure string matching: no I/O, no state, same answer every call.
package classify

import (
	"path"
	"sort"
	"strings"

	"github.com/kevinmichaelchen/repo-lens/internal/models"
)

// Directory names that mark a path as vendored, generated, or otherwise
// uninformative. Matching is on whole path segments, at any depth.
var excludedDirs = map[string]bool{
	// package managers / vendored deps
	"node_modules":     true,
	"vendor":           true,
	"third_party":      true,
	"third-party":      true,
	"extern":           true,
	"externals":        true,
	"bower_components": true,
	// VCS
	".git": true,
	".svn": true,
	".hg":  true,
	// build / dist output
	"dist":             true,
	"build":            true,
	"out":              true,
	"target":           true,
	".next":            true,
	".nuxt":            true,
	".output":          true,
	"storybook-static": true,
	// Python env / cache
	".venv":         true,
	"venv":          true,
	"env":           true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	".ruff_cache":   true,
	".tox":          true,
	"site-packages": true,
	"htmlcov":       true,
	".nyc_output":   true,
	"coverage":      true,
	// test snapshots & fixtures
	"__snapshots__": true,
	"__mocks__":     true,
	"testdata":      true,
	"test_data":     true,
	// IDE / misc
	".idea":   true,
	".vscode": true,
	".eggs":   true,
}

// Directory pairs excluded as a unit, at any depth. The single names
// are too common to exclude on their own.
var excludedDirPairs = [][2]string{
	{"public", "build"},
	{"fixtures", "data"},
	{"spec", "fixtures"},
}

// Lockfiles and other exact filenames excluded regardless of location.
var excludedNames = map[string]bool{
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
	"Cargo.lock":        true,
	"Pipfile.lock":      true,
	"poetry.lock":       true,
	"go.sum":            true,
}

// Generated-file suffixes excluded regardless of location.
var generatedSuffixes = []string{
	".lock",
	".min.js",
	".min.css",
	".map",
	".snap",
	".snapshot",
	".pb.go",
	"_grpc.pb.go",
	"_pb2.py",
	"_pb2_grpc.py",
	".pb.ts",
	".pb.js",
	".generated.ts",
	".generated.js",
	"_generated.go",
	".bundle.js",
	".chunk.js",
}

// Extensions that are definitively binary or non-informative.
var binaryExts = map[string]bool{
	// images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true,
	// vector / fonts
	".svg": true, ".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	// documents
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	// archives
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".bz2": true,
	".xz": true, ".7z": true, ".rar": true, ".zst": true,
	// compiled / native
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".wasm": true,
	// JVM / Python bytecode
	".pyc": true, ".pyo": true, ".class": true, ".jar": true, ".war": true, ".ear": true,
	// databases
	".db": true, ".sqlite": true, ".sqlite3": true,
	// media
	".mp3": true, ".mp4": true, ".wav": true, ".avi": true, ".mov": true,
	".webm": true, ".ogg": true,
	// data dumps
	".parquet": true, ".pickle": true, ".pkl": true, ".npy": true, ".npz": true,
	".h5": true, ".hdf5": true,
	// text, but rarely explains the project
	".proto": true,
}

// Dependency / build manifests.
var manifestNames = map[string]bool{
	"pyproject.toml":   true,
	"setup.py":         true,
	"setup.cfg":        true,
	"requirements.txt": true,
	"package.json":     true,
	"go.mod":           true,
	"Cargo.toml":       true,
	"Gemfile":          true,
	"pom.xml":          true,
	"build.gradle":     true,
	"build.gradle.kts": true,
}

// Container / build tooling.
var buildOpsNames = map[string]bool{
	"Dockerfile":          true,
	"docker-compose.yml":  true,
	"docker-compose.yaml": true,
	"Makefile":            true,
	"Justfile":            true,
}

// Recognized source-code extensions.
var sourceExts = map[string]bool{
	".py": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".go": true, ".rs": true, ".java": true, ".rb": true, ".cs": true,
	".cpp": true, ".cc": true, ".c": true, ".h": true, ".kt": true,
	".swift": true, ".php": true, ".scala": true, ".ex": true, ".exs": true,
}

// Excluded reports whether a path matches the exclusion patterns alone:
// vendored directories, lockfiles, generated files, binary extensions.
// Unlike Classify it does not require the path to match any tier, so the
// tree renderer can keep plain docs and data files visible.
func Excluded(p string) bool {
	name := base(p)
	return isExcluded(p, name, strings.ToLower(name))
}

// Classify assigns a path to exactly one tier, or TierExcluded. First
// match wins: exclusions, then README, manifests, build/ops, CI/config,
// source extensions; anything left over is excluded.
func Classify(p string) models.Tier {
	name := base(p)
	lower := strings.ToLower(name)
	ext := strings.ToLower(path.Ext(name))

	if isExcluded(p, name, lower) {
		return models.TierExcluded
	}

	if strings.HasPrefix(lower, "readme") {
		return models.TierREADME
	}

	if manifestNames[name] || matchPrefixExt(name, "requirements", ".txt") ||
		matchPrefixExt(name, "build.gradle", "") || strings.HasSuffix(name, ".csproj") {
		return models.TierManifest
	}

	if buildOpsNames[name] || strings.HasPrefix(name, "Dockerfile.") ||
		strings.HasPrefix(name, "docker-compose") && (ext == ".yml" || ext == ".yaml") {
		return models.TierBuildOps
	}

	if ext == ".yml" || ext == ".yaml" || ext == ".toml" ||
		name == ".env.example" || name == ".env.sample" {
		return models.TierCIConfig
	}

	if sourceExts[ext] {
		return models.TierSource
	}

	return models.TierExcluded
}

// Depth is the number of directory segments above a path. Used as the
// first tiebreaker within a tier so top-level files win.
func Depth(p string) int {
	return strings.Count(p, "/")
}

// Less orders candidates within a tier: shallower path first, then
// lexicographic. Stable across runs over an unchanged listing.
func Less(a, b string) bool {
	da, db := Depth(a), Depth(b)
	if da != db {
		return da < db
	}
	return a < b
}

// SortPaths sorts paths into the canonical within-tier order.
func SortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool { return Less(paths[i], paths[j]) })
}

func isExcluded(p, name, lower string) bool {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		if excludedDirs[seg] || strings.HasSuffix(seg, ".egg-info") {
			return true
		}
		// pair matches must name directories: at least one more
		// segment has to follow
		if i+2 < len(segs) {
			for _, pair := range excludedDirPairs {
				if seg == pair[0] && segs[i+1] == pair[1] {
					return true
				}
			}
		}
	}
	if excludedNames[name] {
		return true
	}
	for _, suf := range generatedSuffixes {
		if strings.HasSuffix(lower, suf) {
			return true
		}
	}
	lowerPath := strings.ToLower(p)
	if strings.HasSuffix(lower, ".go") && strings.Contains(lowerPath, "generated") {
		return true
	}
	if strings.HasSuffix(lower, ".py") && isMigrationFile(lowerPath) {
		return true
	}
	if binaryExts[strings.ToLower(path.Ext(name))] {
		return true
	}
	return false
}

// isMigrationFile reports whether the path names auto-generated
// database migrations: anything under a migrations/ directory whose
// next component starts with a digit (0001_initial.py and friends).
func isMigrationFile(lowerPath string) bool {
	search := "/" + lowerPath
	i := strings.LastIndex(search, "/migrations/")
	if i < 0 {
		return false
	}
	rest := search[i+len("/migrations/"):]
	return rest != "" && rest[0] >= '0' && rest[0] <= '9'
}

func matchPrefixExt(name, prefix, ext string) bool {
	return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext)
}

func base(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
