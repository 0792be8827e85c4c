package debt

import (
	"context"

	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"

	log "github.com/sirupsen/logrus"
)

type SyncReport struct {
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// Syncer rebuilds the debt cache of every property, e.g. after loans were
// edited outside the service.
type Syncer struct {
	props property.Repository
	tx    uow.UnitOfWork
}

func NewSyncer(props property.Repository, tx uow.UnitOfWork) *Syncer {
	return &Syncer{props: props, tx: tx}
}

// SyncAll recomputes each property under its own lock. A failing property is
// counted and skipped; only listing the properties aborts the run.
func (s *Syncer) SyncAll(ctx context.Context) (SyncReport, error) {
	var rep SyncReport
	props, err := s.props.List(ctx)
	if err != nil {
		return rep, err
	}

	for _, p := range props {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		changed := false
		err := s.tx.WithinPropertyTx(ctx, p.PropertyID, func(r uow.Repos, locked *property.Property) error {
			beforeAmount, beforeDetails := locked.DebtAmount, locked.DebtDetails
			agg, err := RecomputeAggregateDebt(ctx, r, locked)
			if err != nil {
				return err
			}
			changed = !beforeAmount.Equal(agg.DebtAmount) || !sameDetails(beforeDetails, agg.DebtDetails)
			return nil
		})
		entry := log.WithField("property_id", p.PropertyID)
		switch {
		case err != nil:
			rep.Failed++
			entry.WithError(err).Error("debt sync failed")
		case changed:
			rep.Updated++
			entry.Info("debt updated")
		default:
			rep.Unchanged++
			entry.Debug("debt unchanged")
		}
	}
	return rep, nil
}

func sameDetails(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
