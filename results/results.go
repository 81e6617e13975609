// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/store"
)

const (
	unknown = "Unknown"
	absent  = "—"
)

var ErrPollNotFound = errors.New("poll not found")

// Options tune what Aggregate reports.
type Options struct {
	// VisibleOnly hides opted-out identities from per-voter listings.
	// Counts and percentages always cover every vote.
	VisibleOnly bool
}

// Input is everything Aggregate needs for one poll.
type Input struct {
	Options   []models.PollOption
	Votes     []models.Vote
	Profiles  []models.UserProfile
	Directory []models.AuthorizedIdentity
}

type OptionCount struct {
	OptionID   string `json:"option_id"`
	OptionText string `json:"option_text"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type VoteDetail struct {
	VoterName  string    `json:"voter_name"`
	VoterEmail string    `json:"voter_email"`
	OptionText string    `json:"option_text"`
	VotedAt    time.Time `json:"voted_at"`
	Gender     string    `json:"gender"`
	Hostel     string    `json:"hostel"`
}

// Cohort splits one option's voters by gender and, for female voters, by
// hostel. Hostel keys are lowercased so spellings that differ only in case
// share a bucket.
type Cohort struct {
	OptionID   string         `json:"option_id"`
	OptionText string         `json:"option_text"`
	ByGender   map[string]int `json:"by_gender"`
	ByHostel   map[string]int `json:"by_hostel"`
}

type Result struct {
	Poll       *models.Poll                `json:"poll,omitempty"`
	TotalVotes int                         `json:"total_votes"`
	Options    []OptionCount               `json:"options"`
	Details    []VoteDetail                `json:"details"`
	Cohorts    []Cohort                    `json:"cohorts"`
	NotVoted   []models.AuthorizedIdentity `json:"not_voted"`
	Summary    string                      `json:"summary"`
}

// Percentage rounds count/total to the nearest whole percent; 0 when total is 0.
func Percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// Aggregate computes counts, per-voter details, cohorts and the not-voted set.
func Aggregate(in Input, opts Options) Result {
	optionText := make(map[string]string, len(in.Options))
	counts := make(map[string]int, len(in.Options))
	for _, o := range in.Options {
		optionText[o.ID] = o.OptionText
	}

	profiles := make(map[string]models.UserProfile, len(in.Profiles))
	for _, p := range in.Profiles {
		profiles[p.UserID] = p
	}

	cohorts := make(map[string]*Cohort, len(in.Options))
	for _, o := range in.Options {
		cohorts[o.ID] = &Cohort{
			OptionID:   o.ID,
			OptionText: o.OptionText,
			ByGender:   map[string]int{},
			ByHostel:   map[string]int{},
		}
	}

	voterEmails := make(map[string]bool, len(in.Votes))
	details := make([]VoteDetail, 0, len(in.Votes))

	for _, v := range in.Votes {
		counts[v.OptionID]++

		profile, hasProfile := profiles[v.UserID]
		if hasProfile {
			voterEmails[profile.Email] = true
		}
		if opts.VisibleOnly && hasProfile && !profile.IsVisible {
			continue
		}

		text, ok := optionText[v.OptionID]
		if !ok {
			text = unknown
		}

		gender := deref(profile.Gender)
		hostel := deref(profile.Hostel)

		details = append(details, VoteDetail{
			VoterName:  voterName(profile, hasProfile),
			VoterEmail: profile.Email,
			OptionText: text,
			VotedAt:    v.VotedAt,
			Gender:     orAbsent(gender),
			Hostel:     orAbsent(hostel),
		})

		if c, ok := cohorts[v.OptionID]; ok && gender != "" {
			c.ByGender[gender]++
			if key := strings.ToLower(strings.TrimSpace(hostel)); gender == models.GenderFemale && key != "" {
				c.ByHostel[key]++
			}
		}
	}

	total := len(in.Votes)
	result := Result{
		TotalVotes: total,
		Options:    make([]OptionCount, 0, len(in.Options)),
		Details:    details,
		Cohorts:    make([]Cohort, 0, len(in.Options)),
		NotVoted:   []models.AuthorizedIdentity{},
	}

	for _, o := range in.Options {
		result.Options = append(result.Options, OptionCount{
			OptionID:   o.ID,
			OptionText: o.OptionText,
			Count:      counts[o.ID],
			Percentage: Percentage(counts[o.ID], total),
		})
		result.Cohorts = append(result.Cohorts, *cohorts[o.ID])
	}

	for _, entry := range in.Directory {
		if voterEmails[entry.Email] {
			continue
		}
		if opts.VisibleOnly && !entry.IsVisible {
			continue
		}
		result.NotVoted = append(result.NotVoted, entry)
	}
	sort.SliceStable(result.NotVoted, func(i, j int) bool {
		return result.NotVoted[i].Email < result.NotVoted[j].Email
	})

	result.Summary = fmt.Sprintf("%s %s cast, %s not voted",
		humanize.Comma(int64(total)), plural(total, "vote", "votes"), humanize.Comma(int64(len(result.NotVoted))))

	return result
}

func voterName(p models.UserProfile, ok bool) string {
	if !ok {
		return unknown
	}
	if name := deref(p.FullName); name != "" {
		return name
	}
	if p.Email != "" {
		return p.Email
	}
	return unknown
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orAbsent(s string) string {
	if s == "" {
		return absent
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Store is the slice of the relational store that results needs.
type Store interface {
	GetPoll(ctx context.Context, id string) (models.Poll, error)
	ListOptions(ctx context.Context, pollID string) ([]models.PollOption, error)
	ListVotes(ctx context.Context, pollID string) ([]models.Vote, error)
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
	ListDirectory(ctx context.Context) ([]models.AuthorizedIdentity, error)
}

type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

// Load fetches a poll's inputs concurrently and aggregates them.
func (s *Service) Load(ctx context.Context, pollID string, opts Options) (Result, error) {
	poll, err := s.store.GetPoll(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{}, ErrPollNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("load poll: %w", err)
	}

	var in Input
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Options, err = s.store.ListOptions(gctx, pollID)
		return err
	})
	g.Go(func() (err error) {
		in.Votes, err = s.store.ListVotes(gctx, pollID)
		return err
	})
	g.Go(func() (err error) {
		in.Profiles, err = s.store.ListProfiles(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Directory, err = s.store.ListDirectory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("load results: %w", err)
	}

	result := Aggregate(in, opts)
	result.Poll = &poll
	return result, nil
}
