package db_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/udisondev/lotroev/internal/data"
	"github.com/udisondev/lotroev/internal/db"
	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
	"github.com/udisondev/lotroev/internal/testutil"
	"github.com/udisondev/lotroev/internal/valuation"
)

// CatalogueSuite exercises the repositories against a real PostgreSQL.
type CatalogueSuite struct {
	suite.Suite
	db  *db.DB
	ctx context.Context
}

func (s *CatalogueSuite) SetupSuite() {
	s.ctx = context.Background()
	s.db = db.Wrap(testutil.SetupTestDB(s.T()))
}

func (s *CatalogueSuite) SetupTest() {
	_, err := s.db.Pool().Exec(s.ctx,
		`TRUNCATE TABLE import_runs, items, dps_tables, progression_tables CASCADE`)
	s.Require().NoError(err)
}

func (s *CatalogueSuite) TestProgressionRoundTrip() {
	tables := testutil.FixtureTables()
	s.Require().NoError(s.db.Progressions.Save(s.ctx, tables))

	got, err := s.db.Progressions.Get(s.ctx, "vivid-might")
	s.Require().NoError(err)
	s.Equal(progression.ModeLinear, got.Mode())
	s.Equal(1000.0, got.Resolve(532))
	s.Equal(900.0, got.Resolve(516))

	arr, err := s.db.Progressions.Get(s.ctx, "item-crit-array")
	s.Require().NoError(err)
	s.Equal(progression.ModeArray, arr.Mode())

	all, err := s.db.Progressions.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, len(tables))
}

func (s *CatalogueSuite) TestProgressionSaveReplaces() {
	s.Require().NoError(s.db.Progressions.Save(s.ctx, []*progression.Table{
		progression.NewTable("t", progression.ModeLinear, []progression.Point{{Level: 1, Value: 1}, {Level: 2, Value: 2}}),
	}))
	s.Require().NoError(s.db.Progressions.Save(s.ctx, []*progression.Table{
		progression.NewTable("t", progression.ModeArray, []progression.Point{{Level: 5, Value: 50}}),
	}))

	got, err := s.db.Progressions.Get(s.ctx, "t")
	s.Require().NoError(err)
	s.Equal(progression.ModeArray, got.Mode())
	s.Equal([]progression.Point{{Level: 5, Value: 50}}, got.Points())
}

func (s *CatalogueSuite) TestProgressionNotFound() {
	_, err := s.db.Progressions.Get(s.ctx, "missing")
	s.ErrorIs(err, db.ErrNotFound)
}

func (s *CatalogueSuite) TestDPSRoundTrip() {
	s.Require().NoError(s.db.DPS.Save(s.ctx, testutil.FixtureDPSTables()))

	all, err := s.db.DPS.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)

	tbl := all[0]
	s.Equal(testutil.FixtureDPSTableSword, tbl.ID())
	s.InDelta(330.0, tbl.Resolve(500, model.QualityRare), 1e-9)
	s.InDelta(450.0, tbl.Resolve(500, model.QualityLegendary), 1e-9)
	s.InDelta(300.0, tbl.Resolve(500, model.QualityCommon), 1e-9)
}

func (s *CatalogueSuite) TestItemRoundTrip() {
	items := testutil.FixtureItems()
	s.Require().NoError(s.db.Items.Save(s.ctx, items))

	helm, err := s.db.Items.Get(s.ctx, testutil.KeyHelm)
	s.Require().NoError(err)
	s.Equal(model.KindEquipment, helm.Kind)
	s.Equal(model.QualityIncomparable, helm.Quality)
	s.Require().NotNil(helm.Equipment)
	s.Equal(model.SocketCounts{Basic: 1, Vital: 1}, helm.Equipment.Sockets)
	s.Require().Len(helm.Stats, 3)
	s.Equal("ARMOUR", helm.Stats[0].Name)
	s.Equal("VITALITY", helm.Stats[2].Name)
	s.Nil(helm.Weapon)

	sword, err := s.db.Items.Get(s.ctx, testutil.KeySword)
	s.Require().NoError(err)
	s.Require().NotNil(sword.Weapon)
	s.Equal(testutil.FixtureDPSTableSword, sword.Weapon.DPSTableID)
	s.NotNil(sword.Equipment)

	ess, err := s.db.Items.Get(s.ctx, testutil.KeySupplementalVit)
	s.Require().NoError(err)
	s.Require().NotNil(ess.Essence)
	s.Equal(23, ess.Essence.Type)

	all, err := s.db.Items.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, len(items))
	s.Equal(testutil.KeyVividMight, all[0].Key)

	n, err := s.db.Items.Count(s.ctx, model.KindEssence)
	s.Require().NoError(err)
	s.Equal(9, n)
}

func (s *CatalogueSuite) TestItemNotFound() {
	_, err := s.db.Items.Get(s.ctx, 424242)
	s.ErrorIs(err, db.ErrNotFound)
}

func (s *CatalogueSuite) TestCatalogueRoundTripKeepsValuation() {
	src := testutil.FixtureCatalogue()
	s.Require().NoError(s.db.SaveCatalogue(s.ctx, src))

	loaded, err := s.db.LoadCatalogue(s.ctx)
	s.Require().NoError(err)

	want := valuation.NewCalculator(src, valuation.WithDPSTables(src))
	got := valuation.NewCalculator(loaded, valuation.WithDPSTables(loaded))
	s.Equal(want.Basis(), got.Basis())
	s.Equal(want.VitalSocketValue(), got.VitalSocketValue())

	for _, it := range src.Items() {
		other, ok := loaded.Item(it.Key)
		s.Require().True(ok, "item %d", it.Key)
		s.Equal(want.Evaluate(it, 0), got.Evaluate(other, 0))
	}
}

func (s *CatalogueSuite) TestSaveCatalogueReplacesEverything() {
	s.Require().NoError(s.db.SaveCatalogue(s.ctx, testutil.FixtureCatalogue()))
	s.Require().NoError(s.db.Imports.Record(s.ctx, "items.xml", []byte{1}, 13))

	smaller := data.NewCatalogue()
	smaller.AddProgressionTables(testutil.FixtureTables()[0])
	helm, _ := testutil.FixtureCatalogue().Item(testutil.KeyHelm)
	smaller.AddItems(helm)
	s.Require().NoError(s.db.SaveCatalogue(s.ctx, smaller))

	loaded, err := s.db.LoadCatalogue(s.ctx)
	s.Require().NoError(err)
	progressions, dpsTables, items := loaded.Counts()
	s.Equal(1, progressions)
	s.Zero(dpsTables)
	s.Equal(1, items)
	_, ok := loaded.Item(testutil.KeySword)
	s.False(ok)

	_, err = s.db.Imports.Last(s.ctx, "items.xml")
	s.NoError(err)
}

func (s *CatalogueSuite) TestItemDuplicateStatRejected() {
	it := model.NewItem(9001, "Twice", 500, model.QualityCommon, []model.StatRef{
		{Name: "MIGHT", TableID: "a", Order: 0},
		{Name: "MIGHT", TableID: "b", Order: 1},
	})
	s.Error(s.db.Items.Save(s.ctx, []*model.ItemTemplate{it}))

	_, err := s.db.Items.Get(s.ctx, 9001)
	s.ErrorIs(err, db.ErrNotFound)
}

func (s *CatalogueSuite) TestSaveEmptyCatalogue() {
	s.NoError(s.db.SaveCatalogue(s.ctx, data.NewCatalogue()))
}

func (s *CatalogueSuite) TestImportRuns() {
	fp1, err := db.Fingerprint(bytes.NewReader([]byte("<items/>")))
	s.Require().NoError(err)
	fp2, err := db.Fingerprint(bytes.NewReader([]byte("<items></items>")))
	s.Require().NoError(err)
	s.Len(fp1, 32)
	s.NotEqual(fp1, fp2)

	unchanged, err := s.db.Imports.Unchanged(s.ctx, "items.xml", fp1)
	s.Require().NoError(err)
	s.False(unchanged, "never imported")

	_, err = s.db.Imports.Last(s.ctx, "items.xml")
	s.ErrorIs(err, db.ErrNotFound)

	s.Require().NoError(s.db.Imports.Record(s.ctx, "items.xml", fp1, 12))

	unchanged, err = s.db.Imports.Unchanged(s.ctx, "items.xml", fp1)
	s.Require().NoError(err)
	s.True(unchanged)

	unchanged, err = s.db.Imports.Unchanged(s.ctx, "items.xml", fp2)
	s.Require().NoError(err)
	s.False(unchanged)

	s.Require().NoError(s.db.Imports.Record(s.ctx, "items.xml", fp2, 13))
	run, err := s.db.Imports.Last(s.ctx, "items.xml")
	s.Require().NoError(err)
	s.Equal(fp2, run.Fingerprint)
	s.Equal(13, run.Records)
}

func TestCatalogueSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(CatalogueSuite))
}
