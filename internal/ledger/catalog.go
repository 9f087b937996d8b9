package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// setCostTransition sets the token cost of a reward. Cost zero delists the
// reward for redemption purposes without erasing previously set metadata.
type setCostTransition struct {
	caller domain.Address
	reward domain.RewardID
	cost   *big.Int
}

func (t *setCostTransition) Kind() string { return "catalog.set_cost" }

func (t *setCostTransition) apply(config Config, s *state) error {
	if !t.caller.Equal(config.Owner) {
		return domain.ErrUnauthorized
	}
	if t.cost == nil || t.cost.Sign() < 0 {
		return fmt.Errorf("%w: reward cost must not be negative", domain.ErrInvalidAmount)
	}
	reward := s.rewards[t.reward]
	if reward == nil {
		reward = &domain.Reward{ID: t.reward}
		s.rewards[t.reward] = reward
	}
	reward.Cost = new(big.Int).Set(t.cost)
	return nil
}

// setMetadataTransition attaches a metadata or image CID to an existing
// reward. Metadata cannot attach to a reward whose cost was never set.
type setMetadataTransition struct {
	caller domain.Address
	reward domain.RewardID
	cid    domain.CID
	image  bool
}

func (t *setMetadataTransition) Kind() string {
	if t.image {
		return "catalog.set_image"
	}
	return "catalog.set_metadata"
}

func (t *setMetadataTransition) apply(config Config, s *state) error {
	if !t.caller.Equal(config.Owner) {
		return domain.ErrUnauthorized
	}
	reward := s.rewards[t.reward]
	if !reward.Exists() {
		return fmt.Errorf("%w: reward %d", domain.ErrRewardNotFound, t.reward)
	}
	if t.image {
		reward.ImageCID = t.cid
	} else {
		reward.MetadataCID = t.cid
	}
	return nil
}

// SetRewardCost sets the reward's token cost. Owner only. Cost zero makes the
// reward non-existent for redemption.
func (l *Ledger) SetRewardCost(ctx context.Context, caller domain.Address, id domain.RewardID, cost *big.Int) (*Receipt, error) {
	return l.submitter.Submit(ctx, &setCostTransition{caller: caller, reward: id, cost: cost})
}

// SetRewardMetadata attaches a metadata CID to an existing reward. Owner only.
func (l *Ledger) SetRewardMetadata(ctx context.Context, caller domain.Address, id domain.RewardID, cid domain.CID) (*Receipt, error) {
	return l.submitter.Submit(ctx, &setMetadataTransition{caller: caller, reward: id, cid: cid})
}

// SetRewardImage attaches an image CID to an existing reward. Owner only.
func (l *Ledger) SetRewardImage(ctx context.Context, caller domain.Address, id domain.RewardID, cid domain.CID) (*Receipt, error) {
	return l.submitter.Submit(ctx, &setMetadataTransition{caller: caller, reward: id, cid: cid, image: true})
}

// Reward returns a copy of the catalog entry, or nil when the id was never
// configured.
func (l *Ledger) Reward(id domain.RewardID) *domain.Reward {
	var reward *domain.Reward
	l.read(func(s *state) {
		if r := s.rewards[id]; r != nil {
			copied := *r
			if r.Cost != nil {
				copied.Cost = new(big.Int).Set(r.Cost)
			}
			reward = &copied
		}
	})
	return reward
}

// RewardCost returns the reward's token cost, zero when unset
func (l *Ledger) RewardCost(id domain.RewardID) *big.Int {
	cost := new(big.Int)
	l.read(func(s *state) {
		if r := s.rewards[id]; r != nil && r.Cost != nil {
			cost.Set(r.Cost)
		}
	})
	return cost
}

// RewardMetadata returns the reward's metadata CID, empty when unset
func (l *Ledger) RewardMetadata(id domain.RewardID) domain.CID {
	var cid domain.CID
	l.read(func(s *state) {
		if r := s.rewards[id]; r != nil {
			cid = r.MetadataCID
		}
	})
	return cid
}

// RewardImage returns the reward's image CID, empty when unset
func (l *Ledger) RewardImage(id domain.RewardID) domain.CID {
	var cid domain.CID
	l.read(func(s *state) {
		if r := s.rewards[id]; r != nil {
			cid = r.ImageCID
		}
	})
	return cid
}
