package structure

import (
	"context"
	"fmt"
	"strings"

	"campus-rentals-backend/internal/domain/auth"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"
	wf "campus-rentals-backend/internal/domain/waterfall"
	"campus-rentals-backend/pkg/id"

	log "github.com/sirupsen/logrus"
)

type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repos: repos, uow: tx}
}

// buildTiers decodes every tier as a rule before anything is written.
func buildTiers(in []TierInput) ([]wf.Tier, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one tier is required", wf.ErrInvalidTierConfiguration)
	}
	seen := make(map[int]bool, len(in))
	out := make([]wf.Tier, 0, len(in))
	for _, t := range in {
		name := strings.TrimSpace(t.TierName)
		if name == "" {
			return nil, fmt.Errorf("%w: tier %d has no name", wf.ErrInvalidTierConfiguration, t.TierNumber)
		}
		if seen[t.TierNumber] {
			return nil, fmt.Errorf("%w: duplicate tier number %d", wf.ErrInvalidTierConfiguration, t.TierNumber)
		}
		seen[t.TierNumber] = true

		tier := wf.Tier{
			TierNumber:        t.TierNumber,
			TierName:          name,
			TierType:          wf.TierType(strings.ToUpper(string(t.TierType))),
			Priority:          t.Priority,
			ReturnRate:        t.ReturnRate,
			CatchUpPercentage: t.CatchUpPercentage,
			PromotePercentage: t.PromotePercentage,
			IsActive:          t.IsActive == nil || *t.IsActive,
		}
		if _, err := tier.Rule(); err != nil {
			return nil, err
		}
		out = append(out, tier)
	}
	wf.SortTiers(out)
	return out, nil
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", wf.ErrInvalidStructure)
	}
	return name, nil
}

// publicPropertyID resolves the public id of the structure's property.
func publicPropertyID(ctx context.Context, props property.Repository, s *wf.Structure) (*string, error) {
	if s.Global() {
		return nil, nil
	}
	p, err := props.GetByID(ctx, *s.PropertyID)
	if err != nil {
		return nil, err
	}
	return &p.PropertyID, nil
}

func (u *Usecase) Create(ctx context.Context, in CreateStructureInput, actor auth.Actor) (*StructureDTO, error) {
	name, err := checkName(in.Name)
	if err != nil {
		return nil, err
	}
	tiers, err := buildTiers(in.Tiers)
	if err != nil {
		return nil, err
	}

	var out StructureDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s := &wf.Structure{
			StructureID: id.NewID32(),
			Name:        name,
			Description: in.Description,
			IsActive:    true,
			Tiers:       tiers,
			CreatedBy:   actor.UserID,
		}
		var pid *string
		if in.PropertyID != "" {
			p, err := r.Properties.GetByPropertyID(ctx, in.PropertyID)
			if err != nil {
				return err
			}
			s.PropertyID = &p.ID
			pid = &p.PropertyID
		}
		if err := r.Structures.Create(ctx, s); err != nil {
			return err
		}
		out = toDTO(s, pid)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"structure_id": out.StructureID,
		"global":       out.Global,
		"tiers":        len(out.Tiers),
		"actor":        actor.UserID,
		"role":         actor.Role,
	}).Info("waterfall structure created")
	return &out, nil
}

func (u *Usecase) Update(ctx context.Context, structureID string, in UpdateStructureInput, actor auth.Actor) (*StructureDTO, error) {
	var tiers []wf.Tier
	if in.Tiers != nil {
		var err error
		if tiers, err = buildTiers(in.Tiers); err != nil {
			return nil, err
		}
	}

	var out StructureDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Structures.GetByStructureID(ctx, structureID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			if s.Name, err = checkName(*in.Name); err != nil {
				return err
			}
		}
		if in.Description != nil {
			s.Description = in.Description
		}
		if in.IsActive != nil {
			s.IsActive = *in.IsActive
		}
		if err := r.Structures.Save(ctx, s); err != nil {
			return err
		}
		if tiers != nil {
			if err := r.Structures.ReplaceTiers(ctx, s.ID, tiers); err != nil {
				return err
			}
			s.Tiers = tiers
		}
		pid, err := publicPropertyID(ctx, r.Properties, s)
		if err != nil {
			return err
		}
		out = toDTO(s, pid)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"structure_id":   structureID,
		"tiers_replaced": tiers != nil,
		"actor":          actor.UserID,
		"role":           actor.Role,
	}).Info("waterfall structure updated")
	return &out, nil
}

func (u *Usecase) Deactivate(ctx context.Context, structureID string, actor auth.Actor) (*StructureDTO, error) {
	off := false
	return u.Update(ctx, structureID, UpdateStructureInput{IsActive: &off}, actor)
}

// Delete removes a structure that never produced a distribution.
func (u *Usecase) Delete(ctx context.Context, structureID string, actor auth.Actor) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Structures.GetByStructureID(ctx, structureID)
		if err != nil {
			return err
		}
		n, err := r.Distributions.CountByStructure(ctx, s.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return wf.ErrStructureHasDistributions
		}
		return r.Structures.Delete(ctx, s)
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"structure_id": structureID,
		"actor":        actor.UserID,
		"role":         actor.Role,
	}).Info("waterfall structure deleted")
	return nil
}

// Apply copies a global template and its active tiers onto a property.
func (u *Usecase) Apply(ctx context.Context, globalStructureID string, in ApplyInput, actor auth.Actor) (*StructureDTO, error) {
	if in.PropertyID == "" {
		return nil, wf.ErrPropertyRequired
	}

	var out StructureDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		tpl, err := r.Structures.GetByStructureID(ctx, globalStructureID)
		if err != nil {
			return err
		}
		if !tpl.Global() {
			return wf.ErrNotGlobalStructure
		}
		if !tpl.IsActive {
			return wf.ErrStructureInactive
		}
		p, err := r.Properties.GetByPropertyID(ctx, in.PropertyID)
		if err != nil {
			return err
		}

		name := tpl.Name
		if in.Name != nil {
			if name, err = checkName(*in.Name); err != nil {
				return err
			}
		}
		active := tpl.ActiveTiers()
		if len(active) == 0 {
			return fmt.Errorf("%w: template has no active tiers", wf.ErrInvalidTierConfiguration)
		}
		tiers := make([]wf.Tier, 0, len(active))
		for _, t := range active {
			t.ID, t.WaterfallStructureID = 0, 0
			tiers = append(tiers, t)
		}

		s := &wf.Structure{
			StructureID: id.NewID32(),
			PropertyID:  &p.ID,
			Name:        name,
			Description: tpl.Description,
			IsActive:    true,
			Tiers:       tiers,
			CreatedBy:   actor.UserID,
		}
		if err := r.Structures.Create(ctx, s); err != nil {
			return err
		}
		out = toDTO(s, &p.PropertyID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"template_id":  globalStructureID,
		"structure_id": out.StructureID,
		"property_id":  in.PropertyID,
		"actor":        actor.UserID,
		"role":         actor.Role,
	}).Info("waterfall template applied")
	return &out, nil
}

func (u *Usecase) Get(ctx context.Context, structureID string) (*StructureDTO, error) {
	s, err := u.repos.Structures.GetByStructureID(ctx, structureID)
	if err != nil {
		return nil, err
	}
	pid, err := publicPropertyID(ctx, u.repos.Properties, s)
	if err != nil {
		return nil, err
	}
	out := toDTO(s, pid)
	return &out, nil
}

// ListByProperty returns the active structures of the property.
func (u *Usecase) ListByProperty(ctx context.Context, propertyID string) ([]StructureDTO, error) {
	p, err := u.repos.Properties.GetByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	list, err := u.repos.Structures.ListByProperty(ctx, p.ID, true)
	if err != nil {
		return nil, err
	}
	out := make([]StructureDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i], &p.PropertyID))
	}
	return out, nil
}

func (u *Usecase) ListGlobal(ctx context.Context) ([]StructureDTO, error) {
	list, err := u.repos.Structures.ListGlobal(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StructureDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i], nil))
	}
	return out, nil
}
