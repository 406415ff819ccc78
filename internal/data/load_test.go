package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lotroev/internal/model"
)

func writeSources(t *testing.T) Sources {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	return Sources{
		Progressions: write("progressions.xml", `<progressions>
	<linearInterpolationProgression identifier="might">
		<point x="500" y="500"/>
		<point x="540" y="900"/>
	</linearInterpolationProgression>
	<linearInterpolationProgression identifier="unused">
		<point x="1" y="1"/>
	</linearInterpolationProgression>
</progressions>`),
		DPSTables: write("dpsTables.xml", `<dpsTables>
	<valueTable id="sword">
		<quality key="RARE" factor="1.1"/>
		<baseValue level="500" value="300"/>
	</valueTable>
</dpsTables>`),
		Items: write("items.xml", `<items>
	<item key="1" name="Low Helm" level="10" slot="HEAD">
		<stats><stat name="MIGHT" scaling="might"/></stats>
	</item>
	<item key="2" name="Sword" level="500" slot="MAIN_HAND" quality="RARE" dpsTableId="sword">
		<stats><stat name="MIGHT" scaling="might"/><stat name="AGILITY" scaling="ghost"/></stats>
	</item>
</items>`),
	}
}

func TestLoadXML(t *testing.T) {
	src := writeSources(t)

	cat, err := LoadXML(context.Background(), src, nil)
	require.NoError(t, err)

	p, d, i := cat.Counts()
	assert.Equal(t, 1, p, "unreferenced tables are dropped")
	assert.Equal(t, 1, d)
	assert.Equal(t, 2, i)

	sword, ok := cat.Item(2)
	require.True(t, ok)
	assert.Equal(t, model.KindWeapon, sword.Kind)
	v, _ := model.StatAt(sword, "MIGHT", 520, cat)
	assert.Equal(t, 700.0, v)
}

func TestLoadXML_Keep(t *testing.T) {
	src := writeSources(t)

	cat, err := LoadXML(context.Background(), src, func(it *model.ItemTemplate) bool {
		return it.BaseLevel >= 100
	})
	require.NoError(t, err)

	_, ok := cat.Item(1)
	assert.False(t, ok)
	_, ok = cat.Item(2)
	assert.True(t, ok)
}

func TestLoadXML_WithoutDPSTables(t *testing.T) {
	src := writeSources(t)
	src.DPSTables = ""

	cat, err := LoadXML(context.Background(), src, nil)
	require.NoError(t, err)
	_, d, _ := cat.Counts()
	assert.Zero(t, d)
}

func TestLoadXML_MissingFile(t *testing.T) {
	src := writeSources(t)
	src.Items = filepath.Join(t.TempDir(), "nope.xml")

	_, err := LoadXML(context.Background(), src, nil)
	assert.ErrorContains(t, err, "nope.xml")
}

func TestLoadXML_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadXML(ctx, writeSources(t), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
