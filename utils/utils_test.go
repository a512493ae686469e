package utils

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomDuration(t *testing.T) {
	for i := 0; i < 50; i++ {
		d := RandomDuration(100, 300)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.Less(t, d, 300*time.Millisecond)
	}
	assert.Equal(t, 500*time.Millisecond, RandomDuration(500, 200))
}

func TestScreenShotDebugger_FileName(t *testing.T) {
	dir := t.TempDir()
	s := NewScreenShotDebugger(dir)
	at := time.Date(2025, 9, 1, 14, 3, 5, 0, time.UTC)

	got := s.FileName("apply failed: Vendeur/Boutique XYZ", at)
	assert.Equal(t, filepath.Join(dir, "apply_failed_Vendeur_Boutique_XYZ_2025-09-01_14-03-05.png"), got)

	long := s.FileName(strings.Repeat("a", 200), at)
	assert.Equal(t, 80, len(strings.TrimSuffix(filepath.Base(long), "_2025-09-01_14-03-05.png")))
}
