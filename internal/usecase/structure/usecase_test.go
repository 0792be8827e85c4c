package structure

import (
	"context"
	"errors"
	"testing"

	"campus-rentals-backend/internal/domain/auth"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"
	wf "campus-rentals-backend/internal/domain/waterfall"
	"campus-rentals-backend/internal/testutil/propertymock"
	"campus-rentals-backend/internal/testutil/uowmock"
	"campus-rentals-backend/internal/testutil/waterfallmock"

	"github.com/shopspring/decimal"
)

const propID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

var admin = auth.Actor{UserID: "u-admin", Role: auth.RoleAdmin}

func pct(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }

func classicTiers() []TierInput {
	return []TierInput{
		{TierNumber: 3, TierName: "Residual", TierType: wf.TierResidual, Priority: 3},
		{TierNumber: 1, TierName: "Capital", TierType: wf.TierReturnOfCapital, Priority: 1},
		{TierNumber: 2, TierName: "Pref", TierType: "preferred_return", Priority: 2, ReturnRate: pct("8")},
	}
}

type fixture struct {
	uc         *Usecase
	structures *waterfallmock.StructureRepo
	dists      *waterfallmock.DistributionRepo
	prop       *property.Property
}

func newFixture() *fixture {
	f := &fixture{
		structures: &waterfallmock.StructureRepo{},
		dists:      &waterfallmock.DistributionRepo{},
		prop:       &property.Property{ID: 7, PropertyID: propID},
	}
	props := &propertymock.Repo{
		GetByPropertyIDFn: func(_ context.Context, id string) (*property.Property, error) {
			if id != propID {
				return nil, property.ErrNotFound
			}
			return f.prop, nil
		},
		GetByIDFn: func(_ context.Context, id uint64) (*property.Property, error) {
			if id != f.prop.ID {
				return nil, property.ErrNotFound
			}
			return f.prop, nil
		},
	}
	repos := uow.Repos{Properties: props, Structures: f.structures, Distributions: f.dists}
	f.uc = NewUsecase(repos, uowmock.Passthrough(repos, f.prop))
	return f
}

func TestCreate_PropertyScoped(t *testing.T) {
	f := newFixture()
	var created *wf.Structure
	f.structures.CreateFn = func(_ context.Context, s *wf.Structure) error {
		created = s
		return nil
	}

	out, err := f.uc.Create(context.Background(), CreateStructureInput{
		PropertyID: propID, Name: " Standard ", Tiers: classicTiers(),
	}, admin)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if created == nil || created.PropertyID == nil || *created.PropertyID != 7 {
		t.Fatalf("structure not bound to property: %+v", created)
	}
	if out.Global || out.PropertyID == nil || *out.PropertyID != propID || out.Name != "Standard" {
		t.Fatalf("unexpected dto: %+v", out)
	}
	if len(out.Tiers) != 3 || out.Tiers[0].TierType != wf.TierReturnOfCapital || out.Tiers[1].TierType != wf.TierPreferredReturn {
		t.Fatalf("tiers not ordered or normalized: %+v", out.Tiers)
	}
	if !out.Tiers[2].IsActive || created.CreatedBy != admin.UserID {
		t.Fatalf("defaults not applied")
	}
}

func TestCreate_Global(t *testing.T) {
	f := newFixture()
	out, err := f.uc.Create(context.Background(), CreateStructureInput{Name: "Template", Tiers: classicTiers()}, admin)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if !out.Global || out.PropertyID != nil {
		t.Fatalf("want global structure, got %+v", out)
	}
}

func TestCreate_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		in    CreateStructureInput
		wantE error
	}{
		{"no name", CreateStructureInput{Name: " ", Tiers: classicTiers()}, wf.ErrInvalidStructure},
		{"no tiers", CreateStructureInput{Name: "S"}, wf.ErrInvalidTierConfiguration},
		{"missing rate", CreateStructureInput{Name: "S", Tiers: []TierInput{
			{TierNumber: 1, TierName: "Pref", TierType: wf.TierPreferredReturn},
		}}, wf.ErrInvalidTierConfiguration},
		{"foreign param", CreateStructureInput{Name: "S", Tiers: []TierInput{
			{TierNumber: 1, TierName: "Res", TierType: wf.TierResidual, PromotePercentage: pct("20")},
		}}, wf.ErrInvalidTierConfiguration},
		{"duplicate tier number", CreateStructureInput{Name: "S", Tiers: []TierInput{
			{TierNumber: 1, TierName: "A", TierType: wf.TierResidual},
			{TierNumber: 1, TierName: "B", TierType: wf.TierResidual},
		}}, wf.ErrInvalidTierConfiguration},
		{"unknown property", CreateStructureInput{PropertyID: "nope", Name: "S", Tiers: classicTiers()}, property.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.structures.CreateFn = func(context.Context, *wf.Structure) error {
				t.Fatalf("Create must not be called")
				return nil
			}
			if _, err := f.uc.Create(context.Background(), tc.in, admin); !errors.Is(err, tc.wantE) {
				t.Fatalf("want %v, got %v", tc.wantE, err)
			}
		})
	}
}

func storedStructure() *wf.Structure {
	pid := uint64(7)
	return &wf.Structure{
		ID: 11, StructureID: "s-1", PropertyID: &pid, Name: "Old", IsActive: true,
		Tiers: []wf.Tier{{ID: 1, TierNumber: 1, TierName: "Res", TierType: wf.TierResidual, IsActive: true}},
	}
}

func TestUpdate_ReplacesTiers(t *testing.T) {
	f := newFixture()
	s := storedStructure()
	f.structures.GetByStructureIDFn = func(context.Context, string) (*wf.Structure, error) { return s, nil }
	saved, replaced := false, 0
	f.structures.SaveFn = func(_ context.Context, got *wf.Structure) error {
		saved = got.Name == "New"
		return nil
	}
	f.structures.ReplaceTiersFn = func(_ context.Context, structureID uint64, tiers []wf.Tier) error {
		if structureID != 11 {
			t.Fatalf("ReplaceTiers id=%d", structureID)
		}
		replaced = len(tiers)
		return nil
	}

	name := "New"
	out, err := f.uc.Update(context.Background(), "s-1", UpdateStructureInput{Name: &name, Tiers: classicTiers()}, admin)
	if err != nil {
		t.Fatalf("Update err: %v", err)
	}
	if !saved || replaced != 3 || len(out.Tiers) != 3 || out.Name != "New" {
		t.Fatalf("saved=%v replaced=%d dto=%+v", saved, replaced, out)
	}
	if out.PropertyID == nil || *out.PropertyID != propID {
		t.Fatalf("property id not resolved: %v", out.PropertyID)
	}
}

func TestUpdate_KeepsTiersWhenNil(t *testing.T) {
	f := newFixture()
	s := storedStructure()
	f.structures.GetByStructureIDFn = func(context.Context, string) (*wf.Structure, error) { return s, nil }
	f.structures.ReplaceTiersFn = func(context.Context, uint64, []wf.Tier) error {
		t.Fatalf("ReplaceTiers must not be called")
		return nil
	}
	out, err := f.uc.Deactivate(context.Background(), "s-1", admin)
	if err != nil {
		t.Fatalf("Deactivate err: %v", err)
	}
	if out.IsActive || len(out.Tiers) != 1 {
		t.Fatalf("unexpected dto: %+v", out)
	}
}

func TestUpdate_InvalidTiersNeverLoads(t *testing.T) {
	f := newFixture()
	f.structures.GetByStructureIDFn = func(context.Context, string) (*wf.Structure, error) {
		t.Fatalf("structure must not be loaded for invalid tiers")
		return nil, nil
	}
	_, err := f.uc.Update(context.Background(), "s-1", UpdateStructureInput{Tiers: []TierInput{}}, admin)
	if !errors.Is(err, wf.ErrInvalidTierConfiguration) {
		t.Fatalf("want ErrInvalidTierConfiguration, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	cases := []struct {
		name    string
		count   int64
		wantErr error
		deleted bool
	}{
		{"unused", 0, nil, true},
		{"has distributions", 2, wf.ErrStructureHasDistributions, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.structures.GetByStructureIDFn = func(context.Context, string) (*wf.Structure, error) { return storedStructure(), nil }
			f.dists.CountByStructureFn = func(_ context.Context, id uint64) (int64, error) { return tc.count, nil }
			deleted := false
			f.structures.DeleteFn = func(context.Context, *wf.Structure) error {
				deleted = true
				return nil
			}
			err := f.uc.Delete(context.Background(), "s-1", admin)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if deleted != tc.deleted {
				t.Fatalf("deleted=%v want %v", deleted, tc.deleted)
			}
		})
	}
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture()
	f.structures.GetByStructureIDFn = func(context.Context, string) (*wf.Structure, error) { return nil, wf.ErrStructureNotFound }
	if err := f.uc.Delete(context.Background(), "x", admin); !errors.Is(err, wf.ErrStructureNotFound) {
		t.Fatalf("want ErrStructureNotFound, got %v", err)
	}
}

func globalTemplate() *wf.Structure {
	return &wf.Structure{
		ID: 20, StructureID: "tpl", Name: "Template", IsActive: true,
		Tiers: []wf.Tier{
			{ID: 5, WaterfallStructureID: 20, TierNumber: 2, TierName: "Res", TierType: wf.TierResidual, Priority: 2, IsActive: true},
			{ID: 4, WaterfallStructureID: 20, TierNumber: 1, TierName: "Pref", TierType: wf.TierPreferredReturn, Priority: 1, ReturnRate: pct("8"), IsActive: true},
			{ID: 6, WaterfallStructureID: 20, TierNumber: 3, TierName: "Old", TierType: wf.TierResidual, Priority: 3, IsActive: false},
		},
	}
}

func TestApply_CopiesActiveTiers(t *testing.T) {
	f := newFixture()
	f.structures.GetByStructureIDFn = func(context.Context, string) (*wf.Structure, error) { return globalTemplate(), nil }
	var created *wf.Structure
	f.structures.CreateFn = func(_ context.Context, s *wf.Structure) error {
		created = s
		return nil
	}

	out, err := f.uc.Apply(context.Background(), "tpl", ApplyInput{PropertyID: propID}, admin)
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	if created.StructureID == "tpl" || created.PropertyID == nil || *created.PropertyID != 7 {
		t.Fatalf("copy not bound to property: %+v", created)
	}
	if len(created.Tiers) != 2 || created.Tiers[0].TierName != "Pref" {
		t.Fatalf("unexpected copied tiers: %+v", created.Tiers)
	}
	for _, tier := range created.Tiers {
		if tier.ID != 0 || tier.WaterfallStructureID != 0 {
			t.Fatalf("tier ids must be reset: %+v", tier)
		}
	}
	if out.Name != "Template" || out.Global {
		t.Fatalf("unexpected dto: %+v", out)
	}
}

func TestApply_Rejects(t *testing.T) {
	inactive := globalTemplate()
	inactive.IsActive = false

	cases := []struct {
		name    string
		tpl     *wf.Structure
		in      ApplyInput
		wantErr error
	}{
		{"no property", globalTemplate(), ApplyInput{}, wf.ErrPropertyRequired},
		{"not global", storedStructure(), ApplyInput{PropertyID: propID}, wf.ErrNotGlobalStructure},
		{"inactive", inactive, ApplyInput{PropertyID: propID}, wf.ErrStructureInactive},
		{"unknown property", globalTemplate(), ApplyInput{PropertyID: "nope"}, property.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.structures.GetByStructureIDFn = func(context.Context, string) (*wf.Structure, error) { return tc.tpl, nil }
			if _, err := f.uc.Apply(context.Background(), "tpl", tc.in, admin); !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestListByProperty_ActiveOnly(t *testing.T) {
	f := newFixture()
	f.structures.ListByPropertyFn = func(_ context.Context, propertyID uint64, activeOnly bool) ([]wf.Structure, error) {
		if propertyID != 7 || !activeOnly {
			t.Fatalf("ListByProperty args: %d %v", propertyID, activeOnly)
		}
		return []wf.Structure{*storedStructure()}, nil
	}
	out, err := f.uc.ListByProperty(context.Background(), propID)
	if err != nil || len(out) != 1 || *out[0].PropertyID != propID {
		t.Fatalf("ListByProperty: %v %+v", err, out)
	}
}

func TestGetAndListGlobal(t *testing.T) {
	f := newFixture()
	f.structures.GetByStructureIDFn = func(context.Context, string) (*wf.Structure, error) { return globalTemplate(), nil }
	f.structures.ListGlobalFn = func(context.Context) ([]wf.Structure, error) { return []wf.Structure{*globalTemplate()}, nil }

	got, err := f.uc.Get(context.Background(), "tpl")
	if err != nil || !got.Global || got.PropertyID != nil {
		t.Fatalf("Get: %v %+v", err, got)
	}
	if got.Tiers[0].TierName != "Pref" {
		t.Fatalf("tiers not ordered: %+v", got.Tiers)
	}
	list, err := f.uc.ListGlobal(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("ListGlobal: %v %d", err, len(list))
	}
}
