package valuation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
	"github.com/udisondev/lotroev/internal/testutil"
	"github.com/udisondev/lotroev/internal/valuation"
)

const defaultTimeout = 5 * time.Second

func fixtureCalculator(t *testing.T, opts ...valuation.Option) (*valuation.Calculator, func(int64) *model.ItemTemplate) {
	t.Helper()
	cat := testutil.FixtureCatalogue()
	opts = append([]valuation.Option{valuation.WithDPSTables(cat)}, opts...)
	calc := valuation.NewCalculator(cat, opts...)
	item := func(key int64) *model.ItemTemplate {
		it, ok := cat.Item(key)
		require.True(t, ok, "fixture item %d", key)
		return it
	}
	return calc, item
}

func TestEvaluate_Equipment(t *testing.T) {
	calc, item := fixtureCalculator(t)

	v := calc.Evaluate(item(testutil.KeyHelm), 520)

	assert.Equal(t, testutil.KeyHelm, v.Key)
	assert.Equal(t, model.KindEquipment, v.Kind)
	assert.Equal(t, 520, v.Level)
	require.Len(t, v.Stats, 3)
	assert.Equal(t, []string{"ARMOUR", "MIGHT", "VITALITY"},
		[]string{v.Stats[0].Name, v.Stats[1].Name, v.Stats[2].Name})
	assert.InDelta(t, 7000, v.Stats[0].Value, eps)
	assert.InDelta(t, 700, v.Stats[1].Value, eps)
	assert.InDelta(t, 70, v.Stats[2].Value, eps)

	assert.Equal(t, model.SocketCounts{Basic: 1, Vital: 1}, v.Sockets)
	assert.InDelta(t, 3.15, v.StatEV, eps)
	assert.InDelta(t, 11, v.SocketEV, eps)
	assert.InDelta(t, 14.15, v.EV, eps)
	assert.False(t, v.HasDPS)
}

func TestEvaluate_BaseLevelDefault(t *testing.T) {
	calc, item := fixtureCalculator(t)
	helm := item(testutil.KeyHelm)

	assert.Equal(t, calc.Evaluate(helm, helm.BaseLevel), calc.Evaluate(helm, 0))
	assert.Equal(t, calc.Evaluate(helm, helm.BaseLevel), calc.Evaluate(helm, -3))
}

func TestEvaluate_Weapon(t *testing.T) {
	calc, item := fixtureCalculator(t)

	v := calc.Evaluate(item(testutil.KeySword), 500)

	assert.Equal(t, model.KindWeapon, v.Kind)
	// crit comes from an array table without a 500 entry
	assert.InDelta(t, 0.5, v.StatEV, eps)
	assert.InDelta(t, 1, v.SocketEV, eps)
	assert.InDelta(t, 1.5, v.EV, eps)
	assert.True(t, v.HasDPS)
	assert.InDelta(t, 330, v.DPS, eps)

	sheet := v.Sheet()
	require.Len(t, sheet, 3)
	assert.Equal(t, valuation.StatDPS, sheet[2].Name)
	assert.InDelta(t, 330, sheet[2].Value, eps)
}

func TestEvaluate_WeaponScalesWithLevel(t *testing.T) {
	calc, item := fixtureCalculator(t)

	v := calc.Evaluate(item(testutil.KeySword), 520)

	assert.InDelta(t, 320*1.1, v.DPS, eps)
	// might 700, crit 400 against 2000
	assert.InDelta(t, 0.7+0.2, v.StatEV, eps)
}

func TestEvaluate_WeaponFlatDPS(t *testing.T) {
	calc, item := fixtureCalculator(t)

	v := calc.Evaluate(item(testutil.KeyFlatBow), 540)

	assert.True(t, v.HasDPS)
	assert.Equal(t, 123.5, v.DPS)
	assert.Zero(t, v.EV)
}

func TestEvaluate_WithoutDPSTables(t *testing.T) {
	cat := testutil.FixtureCatalogue()
	calc := valuation.NewCalculator(cat)
	sword, _ := cat.Item(testutil.KeySword)

	v := calc.Evaluate(sword, 500)

	assert.False(t, v.HasDPS)
	assert.Len(t, v.Sheet(), 2)
}

func TestEvaluate_UnknownStat(t *testing.T) {
	calc, item := fixtureCalculator(t)

	v := calc.Evaluate(item(testutil.KeyTrinket), 500)

	require.Len(t, v.Stats, 1)
	assert.Equal(t, 500.0, v.Stats[0].Value)
	assert.Zero(t, v.EV)
	assert.Equal(t, model.KindItem, v.Kind)
}

func TestEvaluate_Observer(t *testing.T) {
	var mu sync.Mutex
	var misses []progression.Miss
	obs := progression.ObserverFunc(func(m progression.Miss) {
		mu.Lock()
		misses = append(misses, m)
		mu.Unlock()
	})
	calc, item := fixtureCalculator(t, valuation.WithObserver(obs))

	calc.Evaluate(item(testutil.KeySword), 500)

	require.Len(t, misses, 1)
	assert.Equal(t, "CRITICAL_RATING", misses[0].Stat)
	assert.Equal(t, "item-crit-array", misses[0].TableID)
	assert.Equal(t, progression.MissNoPoint, misses[0].Reason)
}

func TestEvaluate_Concurrent(t *testing.T) {
	calc, item := fixtureCalculator(t)
	helm := item(testutil.KeyHelm)

	var wg sync.WaitGroup
	got := make([]float64, 64)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = calc.Evaluate(helm, 520).EV
		}()
	}
	wg.Wait()

	for _, ev := range got {
		assert.InDelta(t, 14.15, ev, eps)
	}
}

func TestRank(t *testing.T) {
	cat := testutil.FixtureCatalogue()
	calc := valuation.NewCalculator(cat, valuation.WithDPSTables(cat))
	ctx := testutil.ContextWithTimeout(t, defaultTimeout)

	helm, _ := cat.Item(testutil.KeyHelm)
	sword, _ := cat.Item(testutil.KeySword)
	trinket, _ := cat.Item(testutil.KeyTrinket)
	bow, _ := cat.Item(testutil.KeyFlatBow)

	ranked, err := calc.Rank(ctx, []*model.ItemTemplate{trinket, sword, bow, helm}, 520, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	keys := make([]int64, len(ranked))
	for i, v := range ranked {
		keys[i] = v.Key
	}
	// trinket and bow tie at 0, name order breaks the tie
	assert.Equal(t, []int64{testutil.KeyHelm, testutil.KeySword, testutil.KeyFlatBow, testutil.KeyTrinket}, keys)
	assert.InDelta(t, 14.15, ranked[0].EV, eps)

	for _, v := range ranked {
		assert.Equal(t, 520, v.Level)
	}
}

func TestRank_MatchesEvaluate(t *testing.T) {
	cat := testutil.FixtureCatalogue()
	calc := valuation.NewCalculator(cat, valuation.WithDPSTables(cat))

	items := cat.Items()
	ranked, err := calc.Rank(context.Background(), items, 0, 0)
	require.NoError(t, err)
	require.Len(t, ranked, len(items))

	for _, v := range ranked {
		it, _ := cat.Item(v.Key)
		assert.Equal(t, calc.Evaluate(it, 0), v)
	}
}

func TestRank_Empty(t *testing.T) {
	calc := valuation.NewCalculator(testutil.FixtureCatalogue())

	ranked, err := calc.Rank(context.Background(), nil, 0, 4)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRank_Cancelled(t *testing.T) {
	cat := testutil.FixtureCatalogue()
	calc := valuation.NewCalculator(cat)
	ctx, cancel := testutil.ContextWithCancel(t)
	cancel()

	_, err := calc.Rank(ctx, cat.Items(), 0, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortByEV(t *testing.T) {
	vs := []valuation.Valuation{
		{Key: 3, Name: "B", EV: 1},
		{Key: 1, Name: "A", EV: 2},
		{Key: 5, Name: "B", EV: 1},
		{Key: 4, Name: "A", EV: 1},
	}
	valuation.SortByEV(vs)

	keys := make([]int64, len(vs))
	for i, v := range vs {
		keys[i] = v.Key
	}
	assert.Equal(t, []int64{1, 4, 3, 5}, keys)
}

func TestValuationSheet_DoesNotAlias(t *testing.T) {
	v := valuation.Valuation{
		Stats:  []model.StatValue{{Name: "MIGHT", Value: 1}},
		DPS:    10,
		HasDPS: true,
	}
	sheet := v.Sheet()
	sheet[0].Value = 99

	assert.Equal(t, 1.0, v.Stats[0].Value)
	assert.Len(t, sheet, 2)
}
