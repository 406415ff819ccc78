package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lotroev/internal/config"
	"github.com/udisondev/lotroev/internal/db"
	"github.com/udisondev/lotroev/internal/model"
)

const testProgressions = `<progressions>
	<linearInterpolationProgression identifier="vivid-might">
		<point x="532" y="1000"/>
	</linearInterpolationProgression>
	<linearInterpolationProgression identifier="vivid-vit">
		<point x="532" y="1000"/>
	</linearInterpolationProgression>
	<linearInterpolationProgression identifier="supp-vit">
		<point x="508" y="100"/>
	</linearInterpolationProgression>
	<linearInterpolationProgression identifier="item-might">
		<point x="500" y="500"/>
		<point x="540" y="900"/>
	</linearInterpolationProgression>
</progressions>`

const testItems = `<items>
	<item key="1001" name="Vivid Essence of Might" level="532" category="ESSENCE" essenceType="1" tier="14">
		<stats><stat name="MIGHT" scaling="vivid-might"/></stats>
	</item>
	<item key="1005" name="Vivid Essence of Vitality" level="532" category="ESSENCE" essenceType="1" tier="14">
		<stats><stat name="VITALITY" scaling="vivid-vit"/></stats>
	</item>
	<item key="2001" name="Supplemental Essence of Vitality" level="508" category="ESSENCE" essenceType="23" tier="13">
		<stats><stat name="VITALITY" scaling="supp-vit"/></stats>
	</item>
	<item key="3001" name="Helm of the Proving Grounds" level="520" slot="HEAD" quality="INCOMPARABLE" sockets="SV">
		<stats><stat name="MIGHT" scaling="item-might"/></stats>
	</item>
	<item key="3002" name="Old Boots" level="50" slot="FEET">
		<stats><stat name="MIGHT" scaling="item-might"/></stats>
	</item>
</items>`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("progressions.xml", testProgressions)
	write("items.xml", testItems)
	write("evcalc.yaml", "log_level: error\ndata:\n  dir: "+dir+"\n  dps_tables: \"\"\n")

	t.Setenv("LOTROEV_CONFIG", filepath.Join(dir, "evcalc.yaml"))
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return dir
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestRun_List(t *testing.T) {
	out, err := runCmd(t, "--list")
	require.NoError(t, err)
	for _, name := range []string{"basis", "import", "item", "rank"} {
		assert.Contains(t, out, name)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	_, err := runCmd(t, "frobnicate")
	assert.ErrorContains(t, err, "unknown command")

	_, err = runCmd(t)
	assert.Error(t, err)
}

func TestItem(t *testing.T) {
	setupEnv(t)

	out, err := runCmd(t, "item", "--xml", "--level", "520", "3001")
	require.NoError(t, err)

	assert.Contains(t, out, "Helm of the Proving Grounds (key 3001, equipment, incomparable) at level 520")
	assert.Contains(t, out, "MIGHT")
	assert.Contains(t, out, "sockets SV: 11.0000")
	assert.Contains(t, out, "EV 11.7000 (stats 0.7000 + sockets 11.0000)")
}

func TestItem_NotFound(t *testing.T) {
	setupEnv(t)

	_, err := runCmd(t, "item", "--xml", "999")
	assert.ErrorContains(t, err, "item 999 not found")

	_, err = runCmd(t, "item", "--xml", "abc")
	assert.ErrorContains(t, err, "invalid item key")

	_, err = runCmd(t, "item", "--xml")
	assert.ErrorContains(t, err, "usage")
}

func TestItem_ReportsZeroStats(t *testing.T) {
	setupEnv(t)

	out, err := runCmd(t, "item", "--xml", "3002")
	require.NoError(t, err)
	assert.Contains(t, out, "1 stat(s) resolved to 0")
}

func TestRank(t *testing.T) {
	dir := setupEnv(t)
	xlsx := filepath.Join(dir, "ranking.xlsx")
	sqlite := filepath.Join(dir, "ranking.db")

	out, err := runCmd(t, "rank", "--xml", "--level", "520", "--kind", "equipment",
		"--xlsx", xlsx, "--sqlite", sqlite, "--limit", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Helm of the Proving Grounds")
	assert.NotContains(t, out, "Old Boots", "limited to the top item")
	assert.NotContains(t, out, "Essence")
	assert.FileExists(t, xlsx)
	assert.FileExists(t, sqlite)
}

func TestRank_InvalidKind(t *testing.T) {
	setupEnv(t)

	_, err := runCmd(t, "rank", "--xml", "--kind", "trinket")
	assert.Error(t, err)
}

func TestBasis(t *testing.T) {
	setupEnv(t)

	out, err := runCmd(t, "basis", "--xml")
	require.NoError(t, err)

	assert.Contains(t, out, "reference level 532, supplemental level 508")
	assert.Contains(t, out, "MIGHT")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "vital socket value 10.0000")
}

func TestKeepItems(t *testing.T) {
	assert.Nil(t, keepItems(0))

	keep := keepItems(100)
	assert.True(t, keep(model.NewEssenceItem(1, "Essence", 10, model.QualityCommon, nil, model.Essence{})))
	assert.False(t, keep(model.NewItem(2, "Old", 10, model.QualityCommon, nil)))
	assert.True(t, keep(model.NewItem(3, "New", 500, model.QualityCommon, nil)))
}

func TestImportSettings_FollowMinItemLevel(t *testing.T) {
	path := filepath.Join(setupEnv(t), "items.xml")

	fingerprint := func(minLevel int) []byte {
		fp, err := db.FingerprintFile(path, importSettings(config.ImportConfig{MinItemLevel: minLevel})...)
		require.NoError(t, err)
		return fp
	}

	assert.Equal(t, fingerprint(0), fingerprint(0))
	assert.NotEqual(t, fingerprint(0), fingerprint(500))
}

func TestItemFilter(t *testing.T) {
	helm := model.NewEquipmentItem(1, "Helm of Tests", 500, model.QualityRare, nil, model.Equipment{Slot: "HEAD"})
	trinket := model.NewItem(2, "Trinket", 500, model.QualityRare, nil)

	f, err := itemFilter("equipment", "", "")
	require.NoError(t, err)
	assert.True(t, f(helm))
	assert.False(t, f(trinket))

	f, err = itemFilter("", "helm", "head")
	require.NoError(t, err)
	assert.True(t, f(helm))
	assert.False(t, f(trinket))

	f, err = itemFilter("", "", "CHEST")
	require.NoError(t, err)
	assert.False(t, f(helm))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}
