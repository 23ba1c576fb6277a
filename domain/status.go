package domain

import (
	"taskmarket/errors"
	"time"
)

// DefaultReactivationWindow is how long after creation a post may still be moved back to Active.
const DefaultReactivationWindow = 2 * time.Hour

// TransitionTo applies a status change requested by actorID at instant now.
// Moving to Completed or Finished has no time guard; moving back to Active is
// refused once the post is older than window.
func (p Post) TransitionTo(actorID string, next PostStatus, now time.Time, window time.Duration) (Post, bool, error) {
	if !p.IsCreator(actorID) {
		return p, false, errors.ErrNotCreator
	}
	if _, err := ParseStatus(string(next)); err != nil {
		return p, false, err
	}
	if p.Status == next {
		return p, false, nil
	}
	if next == StatusActive && now.Sub(p.CreatedAt) > window {
		return p, false, errors.ErrStaleReactivation
	}
	c := p.clone()
	c.Status = next
	return c, true, nil
}
