package fuzztests

import (
	"testing"

	"modelgraph/internal/config"
)

func FuzzConfigParse(f *testing.F) {
	addConfigSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		cfg, err := config.Parse(string(input), t.TempDir())
		if err != nil {
			if cfg != nil {
				t.Fatalf("config returned alongside error %v", err)
			}
			return
		}
		_ = cfg.KnownOptions()
		for id := range cfg.Adapters {
			_ = cfg.Filter.Excluded(id)
			_ = cfg.Filter.Ignored(id)
		}
	})
}
