// Package domain contains core concepts of the task marketplace.
// This file defines Post entities and the interest/confirmation invariants.
// No storage, network, or UI logic should be added here.
package domain

import (
	"strings"
	"taskmarket/errors"
	"time"

	"github.com/samber/lo"
)

type Category string

const (
	CategoryHome       Category = "Home"
	CategoryRide       Category = "Ride"
	CategoryMechanical Category = "Mechanical"
	CategoryTechnical  Category = "Technical"
	CategoryIT         Category = "IT"
)

var Categories = []Category{CategoryRide, CategoryHome, CategoryMechanical, CategoryTechnical, CategoryIT}

// ParseCategory accepts the category label case-insensitively.
// "IT/Software" is the label shown by older screens.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "IT/Software") {
		return CategoryIT, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", errors.ErrUnknownCategory
}

type PostStatus string

const (
	StatusActive    PostStatus = "Active"
	StatusCompleted PostStatus = "Completed"
	StatusFinished  PostStatus = "Finished"
)

func ParseStatus(s string) (PostStatus, error) {
	for _, st := range []PostStatus{StatusActive, StatusCompleted, StatusFinished} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", errors.ErrUnknownStatus
}

// Post is a task listing. ConfirmedUserIDs is always a subset of InterestedUsers
// and the creator never appears in either.
type Post struct {
	ID               string
	Category         Category
	Description      string
	CreatorID        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Status           PostStatus
	InterestedUsers  []string
	ConfirmedUserIDs []string
	Language         string
}

func (p Post) IsCreator(userID string) bool {
	return p.CreatorID == userID
}

func (p Post) IsInterested(userID string) bool {
	return lo.Contains(p.InterestedUsers, userID)
}

func (p Post) IsConfirmed(userID string) bool {
	return lo.Contains(p.ConfirmedUserIDs, userID)
}

// ExpressInterest returns the post with userID appended to InterestedUsers.
// changed is false when the user was already interested.
func (p Post) ExpressInterest(userID string) (next Post, changed bool, err error) {
	if p.IsCreator(userID) {
		return p, false, errors.ErrSelfInterest
	}
	if p.IsInterested(userID) {
		return p, false, nil
	}
	if p.Status != StatusActive {
		return p, false, errors.ErrPostNotActive
	}
	next = p.clone()
	next.InterestedUsers = append(next.InterestedUsers, userID)
	return next, true, nil
}

// Confirm promotes an interested user. Only the creator may confirm.
func (p Post) Confirm(actorID, userID string) (next Post, changed bool, err error) {
	if !p.IsCreator(actorID) {
		return p, false, errors.ErrNotCreator
	}
	if p.IsConfirmed(userID) {
		return p, false, nil
	}
	if !p.IsInterested(userID) {
		return p, false, errors.ErrNotInterested
	}
	next = p.clone()
	next.ConfirmedUserIDs = append(next.ConfirmedUserIDs, userID)
	return next, true, nil
}

// CheckInvariants holds on every stored post: the creator is never interested
// nor confirmed, interest has no duplicates and confirmed users are interested.
// The post repository checks it on every versioned read.
func (p Post) CheckInvariants() error {
	if p.IsInterested(p.CreatorID) || p.IsConfirmed(p.CreatorID) {
		return errors.ErrSelfInterest
	}
	if len(lo.Uniq(p.InterestedUsers)) != len(p.InterestedUsers) {
		return errors.ErrInvalidDocument
	}
	if !lo.Every(p.InterestedUsers, p.ConfirmedUserIDs) {
		return errors.ErrNotInterested
	}
	return nil
}

func (p Post) clone() Post {
	c := p
	c.InterestedUsers = append([]string(nil), p.InterestedUsers...)
	c.ConfirmedUserIDs = append([]string(nil), p.ConfirmedUserIDs...)
	return c
}
