package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 16 << 10
)

var configSeeds = []string{
	"",
	"[model]\npackages = [\"./...\"]\ncollapse_hierarchy = true\ndate_kind = \"date-time\"\n",
	"[adapters]\n\"example.com/shop.Money\" = \"string\"\n",
	"[mixins]\n\"time.Time\" = \"example.com/shop.TimeMixin\"\n",
	"[known]\n\"example.com/shop.ID\" = \"string\"\n[formats]\n\"example.com/shop.ID\" = \"uuid\"\n",
	"[filter]\ninclude = [\"example.com/**\"]\nexclude = [\"**.Internal*\"]\nignore = [\"[\"]\n",
	"[model]\nunknown = 1\n",
	"[[model]]\n",
}

var identitySeeds = []string{
	"a.b.Widget\nc.d.Widget\nWidget",
	"example.com/shop.Order\nexample.com/billing.Order",
	"a-b.C\na_b.C\na.b.C",
	"...\n//\n.",
	"p.Café\np.Café",
}

func addConfigSeeds(f *testing.F) {
	for _, s := range configSeeds {
		f.Add([]byte(s))
	}
	// модульные конфиги из testdata тоже годятся как затравка
	root := filepath.Join("..", "gosrc", "testdata")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".toml" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addIdentitySeeds(f *testing.F) {
	for _, s := range identitySeeds {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
